package main

import (
	"fmt"

	"mentor-matching/pkg/registry"
)

const activityRegistryPath = "configs/activity-registry.json"

// unregisteredTaskTypes loads the activity registry and returns the task
// types that run here but are not published in it.
func unregisteredTaskTypes(path string, taskTypes []string) ([]string, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load activity registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("activity registry: %w", err)
	}

	var missing []string
	for _, tt := range taskTypes {
		if _, ok := reg.Find(tt); !ok {
			missing = append(missing, tt)
		}
	}
	return missing, nil
}
