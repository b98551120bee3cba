package generate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/mdgraph/pkg/diagram"
)

var (
	mermaidStartRe = regexp.MustCompile(`(?i)\b(flowchart|graph|sequenceDiagram|classDiagram|erDiagram|gantt|pie)\b[\s\S]*`)
	codeFenceRe    = regexp.MustCompile("```[a-zA-Z]*\\n?")
)

// ExtractMermaid finds the first Mermaid diagram in free model output. Text
// before the diagram keyword and Markdown code fences are removed.
func ExtractMermaid(text string) (string, bool) {
	block := mermaidStartRe.FindString(text)
	if block == "" {
		return "", false
	}
	src := strings.TrimSpace(codeFenceRe.ReplaceAllString(block, ""))
	if !diagram.Validate(src) {
		return "", false
	}
	return src, true
}

// prompt is the instruction sent to every model.
func prompt(req diagram.Request) string {
	kind := string(req.Kind)
	keyword := req.Kind.Keyword()
	if keyword == "" {
		kind, keyword = string(diagram.KindFlowchart), "flowchart"
	}
	return fmt.Sprintf("Generate a Mermaid %s diagram for: %s. Description: %s. \nReturn only the Mermaid code starting with %s, no explanations.",
		kind, req.Title, req.Description, keyword)
}
