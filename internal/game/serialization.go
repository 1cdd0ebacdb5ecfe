package game

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

// Checksum returns the hex SHA-256 of g's JSON encoding. encoding/json sorts
// map keys, so equal states always hash the same.
func Checksum(g *state.Game) (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("failed to encode state: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Encode serializes g for storage.
func Encode(g *state.Game) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// Decode restores a state written by Encode.
func Decode(data []byte) (*state.Game, error) {
	var g state.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	return &g, nil
}

// ValidateRoundtrip checks that g survives an encode/decode cycle unchanged.
func ValidateRoundtrip(g *state.Game) error {
	before, err := Checksum(g)
	if err != nil {
		return err
	}
	data, err := Encode(g)
	if err != nil {
		return err
	}
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	after, err := Checksum(decoded)
	if err != nil {
		return err
	}
	if before != after {
		return fmt.Errorf("checksum mismatch after roundtrip: %s != %s", before, after)
	}
	return nil
}
