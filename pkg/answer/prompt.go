package answer

import (
	"fmt"
	"strings"

	"github.com/nexusai/nexus/pkg/models"
)

// promptTemplate instructs the model to answer only from the supplied
// transcript context.
const promptTemplate = `Answer the following question using ONLY the context provided.
If the context is not enough, just say "I don't know".

Context:
%s

Question: %s`

// BuildPrompt renders the grounded prompt: the retrieved chunk texts with
// their timestamp ranges, in retrieval-rank order, followed by the
// question.
func BuildPrompt(question string, retrieved models.RetrievalResult) string {
	var sb strings.Builder
	for i, sc := range retrieved {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("[%s - %s] %s",
			FormatTimestamp(sc.Chunk.Start), FormatTimestamp(sc.Chunk.End), sc.Chunk.Text))
	}
	return fmt.Sprintf(promptTemplate, sb.String(), question)
}

// FormatTimestamp renders seconds as m:ss or h:mm:ss.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
