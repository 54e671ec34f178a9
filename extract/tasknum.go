package extract

import "fmt"

// FormatTaskNumber renders a step index and assembly sequence id as
// the canonical task number "<assemblyId>.0.<3-digit-step>":
//
//	FormatTaskNumber(7, "1") == "1.0.007"
//
// Pure and total over positive step indices; an index above 999 widens
// past three digits rather than truncating.
func FormatTaskNumber(step int, assemblyID string) string {
	return fmt.Sprintf("%s.0.%03d", assemblyID, step)
}
