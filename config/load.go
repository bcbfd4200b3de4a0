package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// LoadPath loads configuration from path, whether it names a single file
// or a directory of config files processed in lexicographic order, the
// same convention the teacher's own config loader uses.
func LoadPath(path string) (*structs.SchedulerConfig, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if fi.IsDir() {
		return loadDir(path)
	}

	cleaned := filepath.Clean(path)
	cfg, err := ParseFile(cleaned)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %s", cleaned, err)
	}
	return cfg, nil
}

func loadDir(dir string) (*structs.SchedulerConfig, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var files []string
	err = nil
	for err != io.EOF {
		var fis []os.FileInfo
		fis, err = f.Readdir(128)
		if err != nil && err != io.EOF {
			return nil, err
		}

		for _, fi := range fis {
			if fi.IsDir() {
				continue
			}

			name := fi.Name()
			if !strings.HasSuffix(name, ".hcl") && !strings.HasSuffix(name, ".json") {
				continue
			}

			files = append(files, filepath.Join(dir, name))
		}
	}

	if len(files) == 0 {
		return &structs.SchedulerConfig{}, nil
	}

	sort.Strings(files)

	result := &structs.SchedulerConfig{}
	queueNames := make(map[string]int) // name -> index in result.Queues

	for _, path := range files {
		cfg, err := ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %s", path, err)
		}

		for _, q := range cfg.Queues {
			if idx, exists := queueNames[q.Name]; exists {
				result.Queues[idx] = q
				continue
			}
			queueNames[q.Name] = len(result.Queues)
			result.Queues = append(result.Queues, q)
		}

		if cfg.Memory.MemoryAware() {
			result.Memory = cfg.Memory
		}
	}

	applyResidualSplit(result.Queues)

	return result, nil
}
