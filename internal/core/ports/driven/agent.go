package driven

import (
	"context"

	"github.com/shukabase/shuka-cli/internal/core/domain"
)

// StepCallback receives one visible reasoning step as it is produced.
type StepCallback func(step domain.AgentStep)

// SourcesCallback receives a batch of retrieved chunks as they are found.
// Batches may repeat IDs across calls; the caller merges and deduplicates.
type SourcesCallback func(chunks []domain.SourceChunk)

// AgentService is the black-box request/response interface the turn state
// machine drives. Run blocks for the duration of a turn; onStep and
// onSources are invoked zero or more times, strictly before Run returns.
// Run returns the final answer text, or an error whose message may carry
// provider-specific markers (429, RESOURCE_EXHAUSTED, quota) that the core
// classifies.
//
// Implementations may include:
//   - Gemini over the retrieval backend (default)
//   - A canned mock for tests
type AgentService interface {
	Run(
		ctx context.Context,
		query string,
		history []domain.Message,
		settings domain.AppSettings,
		onStep StepCallback,
		onSources SourcesCallback,
	) (string, error)
}
