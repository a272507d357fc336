// Package tts defines the interface for Text-to-Speech adapters.
package tts

import "context"

// Synthesizer renders a prompt as LINEAR16 mono PCM.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
