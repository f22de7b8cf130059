package domain

import (
	"fmt"
	"slices"
)

type Action string

const (
	ActionMorning   Action = "MORNING"
	ActionAfternoon Action = "AFTERNOON"
	ActionAway      Action = "AWAY"
	ActionIdle      Action = "IDLE"
)

// Actions 返回所有动作，顺序固定
func Actions() []Action {
	return []Action{ActionMorning, ActionAfternoon, ActionAway, ActionIdle}
}

// WorkingActions 是需要占用人手和车辆的动作
func WorkingActions() []Action {
	return []Action{ActionMorning, ActionAfternoon}
}

func ParseAction(name string) (Action, error) {
	for _, action := range Actions() {
		if string(action) == name {
			return action, nil
		}
	}
	return "", fmt.Errorf("无法将 %q 转换为动作", name)
}

// ActionRegistry 维护班次标签和动作之间的映射
type ActionRegistry struct {
	idleLabel string
	labels    map[Action][]string
}

func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{
		idleLabel: "---",
		labels: map[Action][]string{
			ActionMorning:   {"M", "M*"},
			ActionAfternoon: {"P", "P*", "PJ"},
			ActionAway:      {"F", "Rec", "Agg", "mal", "/", "L104"},
		},
	}
}

// DefaultLabel 是没有任何排班时的标签
func (r *ActionRegistry) DefaultLabel() string {
	return r.idleLabel
}

func (r *ActionRegistry) Labels(action Action) []string {
	if action == ActionIdle {
		return []string{r.idleLabel}
	}
	return slices.Clone(r.labels[action])
}

// AllLabels 按 IDLE, MORNING, AFTERNOON, AWAY 的顺序返回所有标签
func (r *ActionRegistry) AllLabels() []string {
	labels := []string{}
	for _, action := range []Action{ActionIdle, ActionMorning, ActionAfternoon, ActionAway} {
		labels = append(labels, r.Labels(action)...)
	}
	return labels
}

// LabelFor 返回写回排班表时使用的标签，即该动作的第一个标签
func (r *ActionRegistry) LabelFor(action Action) string {
	return r.Labels(action)[0]
}

func (r *ActionRegistry) Action(label string) (Action, error) {
	for _, action := range []Action{ActionIdle, ActionMorning, ActionAfternoon, ActionAway} {
		if slices.Contains(r.Labels(action), label) {
			return action, nil
		}
	}
	return "", fmt.Errorf("%w: 标签 %q 无法识别为动作", ErrUnknownLabel, label)
}
