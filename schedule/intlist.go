package schedule

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IntList decodes either a single integer or a sequence of integers, so that
// `height: 64` and `height: [64, 128, 256]` are both accepted.
type IntList []int

func (l *IntList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v int
		if err := node.Decode(&v); err != nil {
			return err
		}
		*l = IntList{v}
		return nil
	case yaml.SequenceNode:
		var vs []int
		if err := node.Decode(&vs); err != nil {
			return err
		}
		*l = vs
		return nil
	default:
		return fmt.Errorf("line %d: expected an integer or a list of integers", node.Line)
	}
}
