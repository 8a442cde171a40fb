package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/internal/verifications"
)

var hiluxID = uuid.MustParse("6f1c2b0e-3c1a-4d8e-9a57-2f0b7c1d9e01")

func writeInventory(t *testing.T) string {
	t.Helper()

	records := []identify.Record{
		{ID: hiluxID, Make: "Toyota", Model: "Hilux", Badge: "SR5", Rego: "ABC-123", Description: "white ute", Location: "front row"},
		{ID: uuid.New(), Make: "Toyota", Model: "Corolla", Description: "white hatch", Location: "back lot"},
		{ID: uuid.New(), Make: "Toyota", Model: "Corolla", Description: "red sedan", Location: "back lot"},
	}

	data, err := json.Marshal(records)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestIdentifyCommandTable(t *testing.T) {
	inventory := writeInventory(t)

	out, err := execute(t, "identify", "--inventory", inventory, "--rego", "abc123")
	require.NoError(t, err)

	require.Contains(t, out, "found")
	require.Contains(t, out, hiluxID.String())
	require.Contains(t, out, "rego")
}

func TestIdentifyCommandJSON(t *testing.T) {
	inventory := writeInventory(t)

	out, err := execute(t, "identify", "--inventory", inventory,
		"--make", "toyota", "--model", "corolla", "--json")
	require.NoError(t, err)

	var outcome identify.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	require.Equal(t, identify.MultipleFound, outcome.Status)
	require.Nil(t, outcome.Record)
	require.NotEmpty(t, outcome.Trace)
}

func TestIdentifyCommandDisambiguates(t *testing.T) {
	inventory := writeInventory(t)

	out, err := execute(t, "identify", "--inventory", inventory,
		"--make", "toyota", "--model", "corolla", "--description", "the red one", "--json")
	require.NoError(t, err)

	var outcome identify.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	require.Equal(t, identify.Found, outcome.Status)
	require.Equal(t, "red sedan", outcome.Record.Description)
}

func TestIdentifyCommandErrors(t *testing.T) {
	t.Run("empty descriptor", func(t *testing.T) {
		_, err := execute(t, "identify", "--inventory", writeInventory(t))
		require.ErrorContains(t, err, "descriptor is empty")
	})

	t.Run("missing inventory", func(t *testing.T) {
		_, err := execute(t, "identify", "--inventory", filepath.Join(t.TempDir(), "nope.json"), "--make", "toyota")
		require.ErrorContains(t, err, "open inventory")
	})

	t.Run("malformed inventory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

		_, err := execute(t, "identify", "--inventory", path, "--make", "toyota")
		require.ErrorContains(t, err, "decode inventory")
	})
}

func TestVerificationsCommandArgs(t *testing.T) {
	_, err := execute(t, "verifications", "resolve", "not-a-uuid", "--car", uuid.NewString())
	require.ErrorContains(t, err, "invalid verification id")

	_, err = execute(t, "verifications", "resolve", uuid.NewString(), "--car", "nope")
	require.ErrorContains(t, err, "invalid car id")

	_, err = execute(t, "queue", "dismiss", "nope")
	require.ErrorContains(t, err, "invalid verification id")
}

func TestRenderVerifications(t *testing.T) {
	require.Equal(t, "No verifications", renderVerifications(nil))

	carID := uuid.New()
	out := renderVerifications([]verifications.Verification{
		{
			ID:         uuid.New(),
			Source:     "chat-1",
			Descriptor: identify.Descriptor{Make: "Toyota", Model: "Corolla"},
			Reason:     verifications.ReasonMultipleFound,
			Stage:      "make+model",
			Status:     verifications.StatusResolved,
			CarID:      &carID,
			CreatedAt:  time.Now(),
		},
	})

	require.Contains(t, out, "multiple_found")
	require.Contains(t, out, "chat-1")
	require.Contains(t, out, carID.String())
}

func TestOperator(t *testing.T) {
	require.Equal(t, "sam", operator("sam"))

	t.Setenv("USER", "")
	require.Equal(t, "cli", operator(""))
}
