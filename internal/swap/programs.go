package swap

// Known DEX program IDs.
const (
	// JupiterV6 is the Jupiter aggregator v6 program ID.
	JupiterV6 = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	// RaydiumAMMV4 is the Raydium AMM v4 program ID.
	RaydiumAMMV4 = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	// RaydiumCLMM is the Raydium concentrated liquidity program ID.
	RaydiumCLMM = "CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK"
	// OrcaWhirlpool is the Orca Whirlpool program ID.
	OrcaWhirlpool = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"
)

// Exchange pairs a program ID with its display label.
type Exchange struct {
	ProgramID string
	Label     string
}

// knownExchanges is the allow-list of recognized DEX programs, in priority
// order. The first instruction matching an entry decides the exchange label.
var knownExchanges = []Exchange{
	{JupiterV6, "Jupiter"},
	{RaydiumAMMV4, "Raydium"},
	{RaydiumCLMM, "Raydium CLMM"},
	{OrcaWhirlpool, "Orca"},
}

// exchangePrograms is the membership set derived from knownExchanges.
var exchangePrograms = func() map[string]struct{} {
	m := make(map[string]struct{}, len(knownExchanges))
	for _, e := range knownExchanges {
		m[e.ProgramID] = struct{}{}
	}
	return m
}()

// IsExchangeProgram reports whether programID belongs to a recognized DEX.
func IsExchangeProgram(programID string) bool {
	_, ok := exchangePrograms[programID]
	return ok
}
