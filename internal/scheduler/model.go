package scheduler

import (
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
)

// Variable 是模型中的整数变量，这里只用作 0/1 开关
type Variable struct {
	Name string
	Min  int
	Max  int
}

type Coefficient struct {
	Variable    *Variable
	Coefficient float64
}

// Constraint 要求 Min <= sum(Coefficient * Variable) <= Max
type Constraint struct {
	Name         string
	Min          int
	Max          int
	Coefficients []Coefficient

	model *Model
}

// AddCoefficient 引用的变量必须已经存在于同一个模型中
func (c *Constraint) AddCoefficient(variable string, coefficient float64) error {
	v, ok := c.model.Variable(variable)
	if !ok {
		return fmt.Errorf("%w: 约束 %s 引用了不存在的变量 %s", domain.ErrConfiguration, c.Name, variable)
	}
	for _, existing := range c.Coefficients {
		if existing.Variable.Name == variable {
			return fmt.Errorf("%w: 约束 %s 中变量 %s 的系数已存在", domain.ErrConfiguration, c.Name, variable)
		}
	}

	c.Coefficients = append(c.Coefficients, Coefficient{Variable: v, Coefficient: coefficient})
	return nil
}

func (c *Constraint) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, min/max: %d/%d. coefficients:", c.Name, c.Min, c.Max)
	for _, coefficient := range c.Coefficients {
		fmt.Fprintf(&b, "\n -- %s [%g]", coefficient.Variable.Name, coefficient.Coefficient)
	}
	return b.String()
}

type ObjectiveTerm struct {
	Name        string
	Coefficient float64
}

// Model 是发送给求解器的 {变量, 约束, 目标}，保持注册顺序
type Model struct {
	variables   []*Variable
	constraints []*Constraint
	objective   []ObjectiveTerm

	variableIndex   map[string]*Variable
	constraintIndex map[string]*Constraint
}

func NewModel() *Model {
	return &Model{
		variables:       []*Variable{},
		constraints:     []*Constraint{},
		objective:       []ObjectiveTerm{},
		variableIndex:   make(map[string]*Variable),
		constraintIndex: make(map[string]*Constraint),
	}
}

func (m *Model) AddVariable(name string, min, max int) (*Variable, error) {
	if _, exists := m.variableIndex[name]; exists {
		return nil, fmt.Errorf("%w: 变量 %s 已存在", domain.ErrConfiguration, name)
	}

	v := &Variable{Name: name, Min: min, Max: max}
	m.variables = append(m.variables, v)
	m.variableIndex[name] = v
	return v, nil
}

func (m *Model) AddConstraint(name string, min, max int) (*Constraint, error) {
	if _, exists := m.constraintIndex[name]; exists {
		return nil, fmt.Errorf("%w: 约束 %s 已存在", domain.ErrConfiguration, name)
	}

	c := &Constraint{Name: name, Min: min, Max: max, Coefficients: []Coefficient{}, model: m}
	m.constraints = append(m.constraints, c)
	m.constraintIndex[name] = c
	return c, nil
}

func (m *Model) AddObjective(variable string, coefficient float64) error {
	if _, ok := m.variableIndex[variable]; !ok {
		return fmt.Errorf("%w: 目标函数引用了不存在的变量 %s", domain.ErrConfiguration, variable)
	}
	m.objective = append(m.objective, ObjectiveTerm{Name: variable, Coefficient: coefficient})
	return nil
}

func (m *Model) Variable(name string) (*Variable, bool) {
	v, ok := m.variableIndex[name]
	return v, ok
}

func (m *Model) Constraint(name string) (*Constraint, bool) {
	c, ok := m.constraintIndex[name]
	return c, ok
}

func (m *Model) Variables() []*Variable {
	return m.variables
}

func (m *Model) Constraints() []*Constraint {
	return m.constraints
}

func (m *Model) Objective() []ObjectiveTerm {
	return m.objective
}

func (m *Model) VariableNames() []string {
	names := make([]string, len(m.variables))
	for i, v := range m.variables {
		names[i] = v.Name
	}
	return names
}

func (m *Model) ConstraintNames() []string {
	names := make([]string, len(m.constraints))
	for i, c := range m.constraints {
		names[i] = c.Name
	}
	return names
}
