package cli

import "github.com/tengjizhang/scrub/internal/model"

type OutputFormat = model.OutputFormat
type Document = model.Document
type Stats = model.Stats
type PutResult = model.PutResult
type ImportResult = model.ImportResult
type ImportReport = model.ImportReport
type ListOptions = model.ListOptions

const (
	OutputTable = model.OutputTable
	OutputJSON  = model.OutputJSON
	OutputWide  = model.OutputWide
)
