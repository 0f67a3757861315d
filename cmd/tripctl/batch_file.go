package main

import (
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/services"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// batchFile is the YAML layout read by "tripctl batch".
type batchFile struct {
	StartDate string      `yaml:"start_date"`
	Trips     []batchTrip `yaml:"trips"`
}

type batchTrip struct {
	CurrentLocation   string  `yaml:"current_location"`
	PickupLocation    string  `yaml:"pickup_location"`
	DropoffLocation   string  `yaml:"dropoff_location"`
	CurrentCycleHours float64 `yaml:"current_cycle_hours"`
	StartDate         string  `yaml:"start_date"`
}

// readBatchFile parses and validates every trip up front so a bad entry is
// reported before any planning starts. Trips without a date use the file's
// start_date, then today.
func readBatchFile(path string, today time.Time) ([]services.BatchItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var f batchFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("read batch file %s: %w", path, err)
	}
	if len(f.Trips) == 0 {
		return nil, fmt.Errorf("read batch file %s: no trips", path)
	}

	defaultStart := today
	if f.StartDate != "" {
		if defaultStart, err = parseDate(f.StartDate); err != nil {
			return nil, fmt.Errorf("read batch file %s: start_date: %w", path, err)
		}
	}

	items := make([]services.BatchItem, 0, len(f.Trips))
	for i, t := range f.Trips {
		req, err := domain.NewTripRequest(t.CurrentLocation, t.PickupLocation, t.DropoffLocation, t.CurrentCycleHours)
		if err != nil {
			return nil, fmt.Errorf("read batch file %s: trip %d: %w", path, i+1, err)
		}

		start := defaultStart
		if t.StartDate != "" {
			if start, err = parseDate(t.StartDate); err != nil {
				return nil, fmt.Errorf("read batch file %s: trip %d: %w", path, i+1, err)
			}
		}
		items = append(items, services.BatchItem{Request: req, Start: start})
	}
	return items, nil
}
