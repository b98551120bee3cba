package diagram

import (
	"fmt"
	"strings"
)

// skeletonFunc renders a fixed skeleton around an already sanitized title and
// description.
type skeletonFunc func(title, description string) string

// palette holds the fill/stroke pairs cycled through node styles.
var palette = [...]struct{ fill, stroke string }{
	{"#e0f2fe", "#7dd3fc"}, // sky
	{"#fef9c3", "#fde68a"}, // amber
	{"#fce7f3", "#f9a8d4"}, // pink
	{"#e0e7ff", "#a5b4fc"}, // indigo
	{"#f3f4f6", "#d1d5db"}, // gray
}

// styleSpec returns the Mermaid style attributes for palette entry i.
func styleSpec(i int) string {
	p := palette[i%len(palette)]
	return fmt.Sprintf("fill:%s,stroke:%s,stroke-width:2px,color:#111", p.fill, p.stroke)
}

// source accumulates diagram lines. The header is written unindented and every
// following line is indented by four spaces.
type source struct {
	header string
	lines  []string
}

func newSource(header string) *source {
	return &source{header: header}
}

func (s *source) line(format string, args ...any) *source {
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
	return s
}

// style emits a style line for id using palette entry p.
func (s *source) style(id string, p int) *source {
	return s.line("style %s %s", id, styleSpec(p))
}

// styles emits style lines for ids. The first five ids get distinct palette
// entries and later ids reuse the first one.
func (s *source) styles(ids ...string) *source {
	for i, id := range ids {
		p := i
		if p >= len(palette) {
			p = 0
		}
		s.style(id, p)
	}
	return s
}

func (s *source) String() string {
	var b strings.Builder
	b.WriteString(s.header)
	for _, l := range s.lines {
		b.WriteString("\n    ")
		b.WriteString(l)
	}
	return b.String()
}

// orDefault returns s, or def when s is empty.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// skeletons maps every supported (kind, complexity) pair to its generator.
// Pairs missing from the table resolve to fallbackSkeleton.
var skeletons = map[Kind]map[Complexity]skeletonFunc{
	KindFlowchart: {
		ComplexitySimple:  flowchartSimple,
		ComplexityMedium:  flowchartMedium,
		ComplexityComplex: flowchartComplex,
	},
	KindGraph: {
		ComplexitySimple:  graphSimple,
		ComplexityMedium:  graphMedium,
		ComplexityComplex: graphComplex,
	},
	KindSequence: {
		ComplexitySimple:  sequenceSimple,
		ComplexityMedium:  sequenceMedium,
		ComplexityComplex: sequenceComplex,
	},
	KindClass: {
		ComplexitySimple:  classSimple,
		ComplexityMedium:  classMedium,
		ComplexityComplex: classComplex,
	},
	KindER: {
		ComplexitySimple:  erSimple,
		ComplexityMedium:  erMedium,
		ComplexityComplex: erComplex,
	},
	KindGantt: {
		ComplexitySimple:  ganttSimple,
		ComplexityMedium:  ganttMedium,
		ComplexityComplex: ganttComplex,
	},
	KindPie: {
		ComplexitySimple:  pieSimple,
		ComplexityMedium:  pieMedium,
		ComplexityComplex: pieComplex,
	},
}

// fallbackSkeleton is used for any (kind, complexity) pair without a table
// entry: the title node pointing at an End node. It always uses the flowchart
// keyword so the result passes Validate even for unknown kinds.
func fallbackSkeleton(title, _ string) string {
	return newSource("flowchart TD").
		line("A[%s] --> B[End]", orDefault(title, "Start")).
		styles("A", "B").
		String()
}

// lookupSkeleton returns the generator for (k, c) and whether it came from the table.
func lookupSkeleton(k Kind, c Complexity) (skeletonFunc, bool) {
	if byComplexity, ok := skeletons[k]; ok {
		if fn, ok := byComplexity[c]; ok {
			return fn, true
		}
	}
	return fallbackSkeleton, false
}

// =============================================================================
// Flowchart
// =============================================================================

func flowchartSimple(title, description string) string {
	return newSource("flowchart TD").
		line("A[%s] --> B[%s]", orDefault(title, "Start"), orDefault(description, "Process")).
		line("B --> C{Decision}").
		line("C -->|Yes| D[Action]").
		line("C -->|No| E[End]").
		line("D --> E").
		styles("A", "B", "C", "D", "E").
		String()
}

func flowchartMedium(title, _ string) string {
	return newSource("flowchart TD").
		line("A[%s] --> B[Input]", orDefault(title, "Start")).
		line("B --> C{Validation}").
		line("C -->|Valid| D[Process]").
		line("C -->|Invalid| E[Error]").
		line("D --> F[Output]").
		line("E --> G[Log Error]").
		line("F --> H[End]").
		line("G --> H").
		styles("A", "B", "C", "D", "E", "F", "G", "H").
		String()
}

func flowchartComplex(title, _ string) string {
	return newSource("flowchart TD").
		line("A[%s] --> B[Initialize]", orDefault(title, "Start")).
		line("B --> C[Load Data]").
		line("C --> D{Validate Input}").
		line("D -->|Valid| E[Process Data]").
		line("D -->|Invalid| F[Show Error]").
		line("E --> G[Transform]").
		line("G --> H[Save Results]").
		line("H --> I[Generate Report]").
		line("F --> J[Retry]").
		line("J --> D").
		line("I --> K[End]").
		styles("A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K").
		String()
}

// =============================================================================
// Graph
// =============================================================================

func graphSimple(title, _ string) string {
	return newSource("graph LR").
		line("A[%s] --> B[Component 1]", orDefault(title, "System")).
		line("A --> C[Component 2]").
		line("B --> D[Feature A]").
		line("C --> E[Feature B]").
		styles("A", "B", "C", "D", "E").
		String()
}

func graphMedium(title, _ string) string {
	return newSource("graph LR").
		line("A[%s] --> B[Frontend]", orDefault(title, "System")).
		line("A --> C[Backend]").
		line("A --> D[Database]").
		line("B --> E[UI Components]").
		line("B --> F[State Management]").
		line("C --> G[API Layer]").
		line("C --> H[Business Logic]").
		line("D --> I[Data Storage]").
		line("D --> J[Cache]").
		styles("A", "B", "C", "D", "E", "F", "G", "H", "I", "J").
		String()
}

func graphComplex(title, _ string) string {
	return newSource("graph LR").
		line("A[%s] --> B[Client Layer]", orDefault(title, "System")).
		line("A --> C[API Gateway]").
		line("A --> D[Service Layer]").
		line("A --> E[Data Layer]").
		line("B --> F[Web App]").
		line("B --> G[Mobile App]").
		line("C --> H[Authentication]").
		line("C --> I[Rate Limiting]").
		line("D --> J[User Service]").
		line("D --> K[Payment Service]").
		line("D --> L[Notification Service]").
		line("E --> M[Primary DB]").
		line("E --> N[Cache DB]").
		line("E --> O[File Storage]").
		styles("A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O").
		String()
}

// =============================================================================
// Sequence
// =============================================================================

func sequenceSimple(title, description string) string {
	return newSource("sequenceDiagram").
		line("participant User").
		line("participant System").
		line("User->>System: Request %s", orDefault(title, "Action")).
		line("System->>System: %s", orDefault(description, "Process")).
		line("System->>User: Response").
		String()
}

func sequenceMedium(title, _ string) string {
	return newSource("sequenceDiagram").
		line("participant Client").
		line("participant API").
		line("participant Database").
		line("Client->>API: %s Request", orDefault(title, "Data")).
		line("API->>Database: Query Data").
		line("Database->>API: Return Data").
		line("API->>Client: Response").
		String()
}

func sequenceComplex(title, _ string) string {
	return newSource("sequenceDiagram").
		line("participant User").
		line("participant Frontend").
		line("participant API").
		line("participant Auth").
		line("participant Database").
		line("participant Cache").
		line("User->>Frontend: %s Action", orDefault(title, "User")).
		line("Frontend->>API: API Request").
		line("API->>Auth: Validate Token").
		line("Auth->>API: Token Valid").
		line("API->>Cache: Check Cache").
		line("Cache->>API: Cache Miss").
		line("API->>Database: Query Data").
		line("Database->>API: Return Data").
		line("API->>Cache: Update Cache").
		line("API->>Frontend: Response").
		line("Frontend->>User: Update UI").
		String()
}

// =============================================================================
// Class
// =============================================================================

// classBody writes the subject class shared by every class skeleton.
func classBody(s *source, name string) *source {
	return s.line("class %s {", name).
		line("    +String name").
		line("    +String email").
		line("    +login()").
		line("    +logout()").
		line("}")
}

func classSimple(title, _ string) string {
	name := identifier(title, "Subject")
	return classBody(newSource("classDiagram"), name).
		style(name, 0).
		String()
}

func classMedium(title, _ string) string {
	name := identifier(title, "Subject")
	s := classBody(newSource("classDiagram"), name).
		line("class System {").
		line("    +authenticate()").
		line("    +process()").
		line("}").
		line("%s --> System : uses", name)
	return s.styles(name, "System").String()
}

func classComplex(title, _ string) string {
	name := identifier(title, "Subject")
	s := classBody(newSource("classDiagram"), name).
		line("class System {").
		line("    +authenticate()").
		line("    +process()").
		line("}").
		line("class Database {").
		line("    +save()").
		line("    +load()").
		line("}").
		line("%s --> System : uses", name).
		line("System --> Database : stores")
	return s.styles(name, "System", "Database").String()
}

// =============================================================================
// Entity relationship
// =============================================================================

func erEntity(name string, attrs ...string) string {
	s := newSource("erDiagram").line("%s {", name)
	for _, a := range attrs {
		s.line("    %s", a)
	}
	return s.line("}").String()
}

func erSimple(title, _ string) string {
	return erEntity(identifier(title, "Entity"),
		"string id",
		"string name",
		"string description",
	)
}

func erMedium(title, _ string) string {
	return erEntity(identifier(title, "Entity"),
		"string id PK",
		"string name",
		"string description",
		"datetime created_at",
		"datetime updated_at",
	)
}

func erComplex(title, _ string) string {
	return erEntity(identifier(title, "Entity"),
		"string id PK",
		"string name",
		"string description",
		"datetime created_at",
		"datetime updated_at",
		"string status",
		"json metadata",
	)
}

// =============================================================================
// Gantt
// =============================================================================

func ganttSimple(title, _ string) string {
	t := orDefault(title, "Schedule")
	return newSource("gantt").
		line("title %s", t).
		line("dateFormat YYYY-MM-DD").
		line("section %s", t).
		line("Task 1 :done, task1, 2024-01-01, 2024-01-05").
		line("Task 2 :active, task2, 2024-01-06, 2024-01-10").
		line("Task 3 :task3, 2024-01-11, 2024-01-15").
		String()
}

func ganttMedium(title, _ string) string {
	return newSource("gantt").
		line("title %s", orDefault(title, "Schedule")).
		line("dateFormat YYYY-MM-DD").
		line("section Planning").
		line("Research :done, research, 2024-01-01, 2024-01-05").
		line("Design :active, design, 2024-01-06, 2024-01-10").
		line("section Development").
		line("Implementation :impl, 2024-01-11, 2024-01-20").
		line("Testing :test, 2024-01-21, 2024-01-25").
		String()
}

func ganttComplex(title, _ string) string {
	return newSource("gantt").
		line("title %s", orDefault(title, "Schedule")).
		line("dateFormat YYYY-MM-DD").
		line("section Phase 1").
		line("Planning :done, plan, 2024-01-01, 2024-01-05").
		line("Design :active, design, 2024-01-06, 2024-01-10").
		line("section Phase 2").
		line("Development :dev, 2024-01-11, 2024-01-20").
		line("Testing :test, 2024-01-21, 2024-01-25").
		line("section Phase 3").
		line("Deployment :deploy, 2024-01-26, 2024-01-30").
		line("Maintenance :maint, 2024-02-01, 2024-02-05").
		String()
}

// =============================================================================
// Pie
// =============================================================================

// pieSlice is one labelled slice of a pie skeleton.
type pieSlice struct {
	label string
	value int
}

func pieChart(title string, slices ...pieSlice) string {
	s := newSource("pie title " + orDefault(title, "Distribution"))
	for _, sl := range slices {
		s.line("%q : %d", sl.label, sl.value)
	}
	return s.String()
}

func pieSimple(title, _ string) string {
	return pieChart(title,
		pieSlice{"Category 1", 30},
		pieSlice{"Category 2", 40},
		pieSlice{"Category 3", 30},
	)
}

func pieMedium(title, _ string) string {
	return pieChart(title,
		pieSlice{"Feature A", 25},
		pieSlice{"Feature B", 35},
		pieSlice{"Feature C", 20},
		pieSlice{"Feature D", 20},
	)
}

func pieComplex(title, _ string) string {
	return pieChart(title,
		pieSlice{"Component 1", 20},
		pieSlice{"Component 2", 25},
		pieSlice{"Component 3", 15},
		pieSlice{"Component 4", 20},
		pieSlice{"Component 5", 20},
	)
}
