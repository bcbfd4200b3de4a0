// Package config loads scheduler configuration from HCL files, following
// the same hcl.Parse -> ast.ObjectList -> mapstructure.WeakDecode pipeline
// used throughout the teacher codebase's own config parsing, and
// aggregates every validation failure with go-multierror instead of
// stopping at the first one.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl"
	"github.com/hashicorp/hcl/hcl/ast"
	"github.com/mitchellh/mapstructure"

	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// ParseFile reads and parses path as an HCL configuration document.
func ParseFile(path string) (*structs.SchedulerConfig, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse parses the configuration document read from r.
func Parse(r io.Reader) (*structs.SchedulerConfig, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}

	root, err := hcl.Parse(buf.String())
	if err != nil {
		return nil, fmt.Errorf("config: error parsing: %s", err)
	}
	buf.Reset()

	list, ok := root.Node.(*ast.ObjectList)
	if !ok {
		return nil, fmt.Errorf("config: root should be an object")
	}

	if err := checkHCLKeys(list, []string{"queue", "mapred"}); err != nil {
		return nil, multierror.Prefix(err, "config:")
	}

	cfg := &structs.SchedulerConfig{}

	queues, err := parseQueues(list.Filter("queue"))
	if err != nil {
		return nil, multierror.Prefix(err, "queue ->")
	}
	cfg.Queues = queues

	if o := list.Filter("mapred"); len(o.Items) > 0 {
		if err := parseMapred(&cfg.Memory, o); err != nil {
			return nil, multierror.Prefix(err, "mapred ->")
		}
	}

	applyResidualSplit(cfg.Queues)

	return cfg, nil
}

// parseQueues decodes every labeled `queue "<name>" { ... }` block. HCL
// represents a labeled block as an ast.ObjectList whose items each carry
// two keys: the block type ("queue") and the label (the queue name).
func parseQueues(list *ast.ObjectList) ([]*structs.QueueConfig, error) {
	valid := []string{"capacity", "maximum-capacity", "minimum-user-limit-percent", "supports-priority"}

	var result *multierror.Error
	var queues []*structs.QueueConfig

	for _, item := range list.Items {
		if len(item.Keys) < 2 {
			result = multierror.Append(result, fmt.Errorf("queue block missing a name label"))
			continue
		}
		name := item.Keys[1].Token.Value().(string)

		if err := checkHCLKeys(item.Val, valid); err != nil {
			result = multierror.Append(result, multierror.Prefix(err, fmt.Sprintf("queue[%s]:", name)))
			continue
		}

		var m map[string]interface{}
		if err := hcl.DecodeObject(&m, item.Val); err != nil {
			result = multierror.Append(result, err)
			continue
		}

		qc := &structs.QueueConfig{Name: name, MinimumUserLimitPercent: 0}
		if err := mapstructure.WeakDecode(m, qc); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		qc.Name = name

		queues = append(queues, qc)
	}

	return queues, result.ErrorOrNil()
}

func parseMapred(result *structs.GlobalMemoryConfig, list *ast.ObjectList) error {
	list = list.Elem()
	if len(list.Items) > 1 {
		return fmt.Errorf("only one 'mapred' block allowed")
	}

	listVal := list.Items[0].Val

	valid := []string{
		"cluster-map-memory-mb",
		"cluster-reduce-memory-mb",
		"cluster-max-map-memory-mb",
		"cluster-max-reduce-memory-mb",
	}
	if err := checkHCLKeys(listVal, valid); err != nil {
		return err
	}

	var m map[string]interface{}
	if err := hcl.DecodeObject(&m, listVal); err != nil {
		return err
	}

	return mapstructure.WeakDecode(m, result)
}

// applyResidualSplit populates EffectiveCapacityPercent for every queue:
// explicitly configured queues use their own value, and queues that left
// "capacity" unset evenly split whatever percentage remains (§4.A).
func applyResidualSplit(queues []*structs.QueueConfig) {
	var explicitTotal float64
	var unconfigured []*structs.QueueConfig

	for _, q := range queues {
		if q.CapacityPercent != nil {
			q.EffectiveCapacityPercent = *q.CapacityPercent
			explicitTotal += *q.CapacityPercent
		} else {
			unconfigured = append(unconfigured, q)
		}
	}

	if len(unconfigured) == 0 {
		return
	}

	residual := 100 - explicitTotal
	share := residual / float64(len(unconfigured))
	for _, q := range unconfigured {
		q.EffectiveCapacityPercent = share
	}
}

func checkHCLKeys(node ast.Node, valid []string) error {
	var list *ast.ObjectList
	switch n := node.(type) {
	case *ast.ObjectList:
		list = n
	case *ast.ObjectType:
		list = n.List
	default:
		return fmt.Errorf("cannot check HCL keys of type %T", n)
	}

	validMap := make(map[string]struct{}, len(valid))
	for _, v := range valid {
		validMap[v] = struct{}{}
	}

	var result *multierror.Error
	for _, item := range list.Items {
		key := item.Keys[0].Token.Value().(string)
		if _, ok := validMap[key]; !ok {
			result = multierror.Append(result, fmt.Errorf("invalid key: %s", key))
		}
	}

	return result.ErrorOrNil()
}
