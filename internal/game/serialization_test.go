package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starsettlers/settlers-server-go/internal/game/actions"
)

func TestChecksumIsStable(t *testing.T) {
	g := newGame(t)

	first, err := Checksum(g)
	require.NoError(t, err)
	second, err := Checksum(g.Clone())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)

	g.Resources[0][0]++
	changed, err := Checksum(g)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestValidateRoundtrip(t *testing.T) {
	g := newGame(t, "alice", "bob", "carol")
	require.NoError(t, ValidateRoundtrip(g))

	_, res := actions.ApplyRecord(g, placement(t, g))
	require.True(t, res.Legal)
	require.NoError(t, ValidateRoundtrip(g))
}

func TestDecodedGameBehavesTheSame(t *testing.T) {
	g := newGame(t)
	data, err := Encode(g)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)

	rec := placement(t, g)
	_, resA := actions.ApplyRecord(g, rec)
	_, resB := actions.ApplyRecord(decoded, rec)
	assert.Equal(t, resA, resB)

	sumA, _ := Checksum(g)
	sumB, _ := Checksum(decoded)
	assert.Equal(t, sumA, sumB)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}
