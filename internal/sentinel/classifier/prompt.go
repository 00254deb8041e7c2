package classifier

import "fmt"

const promptTemplate = "You are a military defense system. Analyze this report: '%s'. " +
	"Respond with exactly ONE word: SAFE, SUSPICIOUS, or THREAT."

// BuildPrompt wraps a field report in the fixed classification instruction.
func BuildPrompt(reportText string) string {
	return fmt.Sprintf(promptTemplate, reportText)
}
