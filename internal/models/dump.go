package models

import "ttsdumper/internal/asset"

type FailedTask struct {
	URL        string `json:"url"`
	Kind       string `json:"kind"`
	LocalName  string `json:"local_name"`
	StatusCode int    `json:"status_code,omitempty"`
	Reason     string `json:"reason"`
}

type InputError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type DumpResult struct {
	RunID          string       `json:"run_id"`
	Inputs         []string     `json:"inputs"`
	OutputDir      string       `json:"output_dir"`
	TotalTasks     int          `json:"total_tasks"`
	Written        int          `json:"written"`
	Skipped        int          `json:"skipped"`
	Failed         int          `json:"failed"`
	TotalSizeBytes int64        `json:"total_size_bytes"`
	TotalSizeHuman string       `json:"total_size_human"`
	OperationTime  string       `json:"operation_time"`
	Duration       string       `json:"duration"`
	InputErrors    []InputError `json:"input_errors,omitempty"`
	Errors         []FailedTask `json:"errors"`
}

type TaskList struct {
	Inputs      []string     `json:"inputs"`
	SaveName    string       `json:"save_name,omitempty"`
	TotalTasks  int          `json:"total_tasks"`
	Tasks       []asset.Task `json:"tasks"`
	InputErrors []InputError `json:"input_errors,omitempty"`
}
