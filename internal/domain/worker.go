package domain

const (
	UnknownWorkerName = "Unknown worker"
	UnknownPosition   = "N/A"
)

type WorkerMetadata struct {
	DisplayName string `json:"displayName"`
	Position    string `json:"position"`
}

func DefaultWorkerMetadata() WorkerMetadata {
	return WorkerMetadata{
		DisplayName: UnknownWorkerName,
		Position:    UnknownPosition,
	}
}

// BatchResult 是批量模式下单个文件的解析结果
type BatchResult struct {
	FileName string         `json:"fileName"`
	Worker   WorkerMetadata `json:"worker"`
	Entries  []ShiftEntry   `json:"entries"`
}
