package registry

import "testing"

func TestLookup_KnownMints(t *testing.T) {
	tests := []struct {
		mint         string
		wantSymbol   string
		wantDecimals int
	}{
		{SOLMint, "SOL", 9},
		{USDCMint, "USDC", 6},
		{USDTMint, "USDT", 6},
		{MSOLMint, "mSOL", 9},
		{JUPMint, "JUP", 6},
	}

	for _, tt := range tests {
		t.Run(tt.wantSymbol, func(t *testing.T) {
			got := Lookup(tt.mint)
			if got.Symbol != tt.wantSymbol {
				t.Errorf("Lookup(%s).Symbol = %s, want %s", tt.mint, got.Symbol, tt.wantSymbol)
			}
			if got.Decimals != tt.wantDecimals {
				t.Errorf("Lookup(%s).Decimals = %d, want %d", tt.mint, got.Decimals, tt.wantDecimals)
			}
		})
	}
}

func TestLookup_UnknownMint(t *testing.T) {
	got := Lookup("abcd1234efgh5678")

	if got.Symbol != "ABCD" {
		t.Errorf("Symbol = %s, want ABCD", got.Symbol)
	}
	if got.Decimals != 9 {
		t.Errorf("Decimals = %d, want 9", got.Decimals)
	}
	if got.Name != "Unknown Token" {
		t.Errorf("Name = %s, want Unknown Token", got.Name)
	}
}

func TestLookup_ShortMint(t *testing.T) {
	got := Lookup("ab")
	if got.Symbol != "AB" {
		t.Errorf("Symbol = %s, want AB", got.Symbol)
	}
}

func TestLookup_Deterministic(t *testing.T) {
	first := Lookup("zQ9xUnknownMintAddress0000000000000000000000")
	for i := 0; i < 10; i++ {
		if got := Lookup("zQ9xUnknownMintAddress0000000000000000000000"); got != first {
			t.Fatalf("Lookup not deterministic: %+v != %+v", got, first)
		}
	}
}
