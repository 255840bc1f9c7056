package solana

import "github.com/gagliardetto/solana-go"

// ProgramID is the placeholder address standing in for the lending program,
// which is not deployed. The system program address keeps derivations
// well-formed without crashing anything that resolves them.
var ProgramID = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")

// LendingPoolAddress derives the pool account address for the lending
// program.
func LendingPoolAddress() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{[]byte("lending_pool")},
		ProgramID,
	)
}

// UserDepositAddress derives the per-user deposit account address.
func UserDepositAddress(user solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{[]byte("user_deposit"), user.Bytes()},
		ProgramID,
	)
}
