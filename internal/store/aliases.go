package store

import "github.com/tengjizhang/scrub/internal/model"

type Document = model.Document
type Stats = model.Stats
type ListOptions = model.ListOptions
type PutDocumentInput = model.PutDocumentInput
