package transfer

type PageInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type ConnectionStatus struct {
	Connected bool      `json:"connected"`
	PageInfo  *PageInfo `json:"page_info,omitempty"`
	Error     string    `json:"error,omitempty"`
}

type SchedulerStatus struct {
	Running    bool `json:"running"`
	ActiveJobs int  `json:"active_jobs"`
}

type CaptionRequest struct {
	ImageID      int64  `json:"image_id"`
	CustomPrompt string `json:"custom_prompt"`
}

type CaptionResult struct {
	Caption    string   `json:"caption"`
	Variations []string `json:"variations"`
}
