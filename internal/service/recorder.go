package service

// Recorder receives operational counts from the services.
type Recorder interface {
	RecordList(degraded bool)
	RecordMutation(op, result string)
	RecordAnalysis(source string)
}

type noopRecorder struct{}

func (noopRecorder) RecordList(bool)              {}
func (noopRecorder) RecordMutation(string, string) {}
func (noopRecorder) RecordAnalysis(string)         {}

// Mutation operation labels.
const (
	OpCreate          = "create"
	OpCreateAnonymous = "create_anonymous"
	OpCreateAssisted  = "create_assisted"
	OpUpdate          = "update"
	OpLike            = "like"
	OpCopy            = "copy"
)
