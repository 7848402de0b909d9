package decode

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"stakeScope/internal/model"
)

// Event signatures of the staking contract. Ownership moves via the
// standard ERC-721 Transfer of the position token.
const (
	sigPositionCreated  = "PositionCreated(uint256,uint64,bytes32)"
	sigFundsDeposited   = "FundsDeposited(uint256,uint256,uint256)"
	sigFundsWithdrawn   = "FundsWithdrawn(uint256,uint256)"
	sigRewardsIssued    = "RewardsIssued(bytes32,uint256)"
	sigRewardsWithdrawn = "RewardsWithdrawn(address,uint256)"
	sigTransfer         = "Transfer(address,address,uint256)"
)

var kindSignatures = map[model.EventKind]string{
	model.KindPositionCreated:      sigPositionCreated,
	model.KindFundsDeposited:       sigFundsDeposited,
	model.KindFundsWithdrawn:       sigFundsWithdrawn,
	model.KindRewardsIssued:        sigRewardsIssued,
	model.KindRewardsWithdrawn:     sigRewardsWithdrawn,
	model.KindOwnershipTransferred: sigTransfer,
}

// TopicForKind returns the keccak256 signature topic for an event kind.
func TopicForKind(kind model.EventKind) common.Hash {
	return crypto.Keccak256Hash([]byte(kindSignatures[kind]))
}

func topicKey(topic0 string) string {
	return strings.ToLower(topic0)
}
