package space

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"

	sx "github.com/branched-services/go-sx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpaceFactory() Factory {
	return Factory{Address: testFactory, SpaceClassHash: testClassHash, EventLayout: sx.SpaceFactoryV1()}
}

func spaceAddrs(n int) []sx.Felt {
	out := make([]sx.Felt, n)
	for i := range out {
		out[i] = sx.FeltFromUint64(uint64(0x5ace0 + i))
	}
	return out
}

func TestAssemble(t *testing.T) {
	cfgs := referenceConfigs()
	rec, err := Assemble(testSpaceFactory(), cfgs, spaceAddrs(3))
	require.NoError(t, err)

	assert.Equal(t, testFactory, rec.SpaceFactory.Address)
	assert.Equal(t, testClassHash, rec.SpaceFactory.SpaceClassHash)
	require.Len(t, rec.Spaces, 3)

	for i, s := range rec.Spaces {
		assert.Equal(t, cfgs[i].Name, s.Name)
		assert.Equal(t, spaceAddrs(3)[i], s.Address)
		assert.Equal(t, testController, s.Controller)
		assert.Equal(t, uint64(200000), s.MaxVotingDuration)
		assert.Len(t, s.ExecutionStrategies, 2)
	}

	third := rec.Spaces[2]
	assert.Equal(t, map[string]sx.Felt{"ethSig": ethSigAuth.Address}, third.Authenticators)
	require.Contains(t, third.VotingStrategies, "ethBalanceOf")
	strategy := third.VotingStrategies["ethBalanceOf"]
	assert.Equal(t, 0, strategy.Index)
	assert.Equal(t, ethBalanceOfVoting.Params, strategy.Parameters)
}

func TestAssembleDoesNotAliasConfig(t *testing.T) {
	cfgs := referenceConfigs()
	cfgs[2].VotingStrategies[0].Params = append([]sx.Felt(nil), ethBalanceOfVoting.Params...)
	rec, err := Assemble(testSpaceFactory(), cfgs, spaceAddrs(3))
	require.NoError(t, err)

	cfgs[2].VotingStrategies[0].Params[1] = sx.FeltFromUint64(99)
	assert.Equal(t, sx.FeltFromUint64(3), rec.Spaces[2].VotingStrategies["ethBalanceOf"].Parameters[1])
}

func TestAssembleCardinality(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for range 200 {
		nConfigs := rng.IntN(6)
		nAddrs := rng.IntN(6)

		cfgs := make([]SpaceConfig, nConfigs)
		for i := range cfgs {
			cfgs[i] = referenceConfigs()[i%3]
		}

		rec, err := Assemble(testSpaceFactory(), cfgs, spaceAddrs(nAddrs))
		if nConfigs == nAddrs {
			require.NoError(t, err)
			assert.Len(t, rec.Spaces, nConfigs)
			continue
		}

		var mismatch *sx.CardinalityMismatchError
		require.True(t, errors.As(err, &mismatch), "configs %d addresses %d: %v", nConfigs, nAddrs, err)
		assert.Equal(t, nConfigs, mismatch.Want)
		assert.Equal(t, nAddrs, mismatch.Got)
		assert.Nil(t, rec)
	}
}

func TestDeploymentRecordJSON(t *testing.T) {
	rec, err := Assemble(testSpaceFactory(), referenceConfigs()[:1], spaceAddrs(1))
	require.NoError(t, err)
	rec.Network = "goerli"
	rec.TransactionHash = sx.MustFelt("0xabc")

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	factory := doc["spaceFactory"].(map[string]any)
	assert.Equal(t, testFactory.Hex(), factory["address"])
	assert.Equal(t, testClassHash.Hex(), factory["spaceClassHash"])
	assert.Equal(t, "goerli", doc["network"])

	space := doc["spaces"].([]any)[0].(map[string]any)
	assert.Equal(t, "0x1", space["proposalThreshold"])
	assert.Equal(t, "0x1", space["quorum"])
	assert.EqualValues(t, 200000, space["maxVotingDuration"])

	strategy := space["votingStrategies"].(map[string]any)["vanilla"].(map[string]any)
	assert.EqualValues(t, 0, strategy["index"])
	assert.Equal(t, []any{}, strategy["parameters"])
}
