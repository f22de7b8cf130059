package solver

import "github.com/sysu-ecnc-dev/shift-planner/backend/internal/scheduler"

type VariableDocument struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

type CoefficientDocument struct {
	Name        string  `json:"name"`
	Min         int     `json:"min"`
	Max         int     `json:"max"`
	Coefficient float64 `json:"coefficient"`
}

type ConstraintDocument struct {
	Name         string                `json:"name"`
	Min          int                   `json:"min"`
	Max          int                   `json:"max"`
	Coefficients []CoefficientDocument `json:"coefficients"`
}

type ObjectiveDocument struct {
	Name        string  `json:"name"`
	Coefficient float64 `json:"coefficient"`
}

// Request 是发送给求解器的请求体
type Request struct {
	Variables   []VariableDocument   `json:"variables"`
	Constraints []ConstraintDocument `json:"constraints"`
	Objective   []ObjectiveDocument  `json:"objective"`
}

func NewRequest(m *scheduler.Model) *Request {
	req := &Request{
		Variables:   make([]VariableDocument, 0, len(m.Variables())),
		Constraints: make([]ConstraintDocument, 0, len(m.Constraints())),
		Objective:   make([]ObjectiveDocument, 0, len(m.Objective())),
	}

	for _, v := range m.Variables() {
		req.Variables = append(req.Variables, VariableDocument{Name: v.Name, Min: v.Min, Max: v.Max})
	}

	for _, c := range m.Constraints() {
		doc := ConstraintDocument{
			Name:         c.Name,
			Min:          c.Min,
			Max:          c.Max,
			Coefficients: make([]CoefficientDocument, 0, len(c.Coefficients)),
		}
		for _, coefficient := range c.Coefficients {
			doc.Coefficients = append(doc.Coefficients, CoefficientDocument{
				Name:        coefficient.Variable.Name,
				Min:         coefficient.Variable.Min,
				Max:         coefficient.Variable.Max,
				Coefficient: coefficient.Coefficient,
			})
		}
		req.Constraints = append(req.Constraints, doc)
	}

	for _, term := range m.Objective() {
		req.Objective = append(req.Objective, ObjectiveDocument{Name: term.Name, Coefficient: term.Coefficient})
	}

	return req
}
