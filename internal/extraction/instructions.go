package extraction

import (
	"context"
	"strings"
)

// DefaultInstructions is the tunable part of the system prompt, used when neither the
// configuration nor an active prompt override replaces it.
const DefaultInstructions = `You read messages from a car dealership team chat and list every vehicle they mention.
- make, model and badge are the manufacturer, model name and trim badge. Leave unknown fields empty.
- description holds colour, body style and other distinguishing words.
- location is where the message says the vehicle is or is going.`

// Contract is the fixed response format appended to every system prompt. Overrides
// never replace it, so responses always parse.
const Contract = `Respond with a JSON object of the form:
{"vehicles":[{"make":"","model":"","badge":"","rego":"","rego_source":"text|photo","description":"","location":""}]}
Rules:
- rego is the registration plate exactly as written. rego_source is "photo" when the plate only appears in the photo text.
- Return {"vehicles":[]} when no vehicle is mentioned.`

// InstructionSource supplies the instructions placed ahead of Contract.
type InstructionSource interface {
	Instructions(ctx context.Context) (string, error)
}

// StaticInstructions is an InstructionSource with fixed text.
// The empty value yields DefaultInstructions.
type StaticInstructions string

func (s StaticInstructions) Instructions(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return DefaultInstructions, nil
	}
	return string(s), nil
}

// SystemPrompt combines instructions with Contract.
func SystemPrompt(instructions string) string {
	return strings.TrimSpace(instructions) + "\n\n" + Contract
}
