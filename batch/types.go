// Package batch drives document chunking over knowledge-base batch files.
//
// An Event names an object-store bucket and a set of input files, each split
// into content batches stored as JSON objects. The driver reads every batch,
// runs the configured chunker over each content body, and writes the
// rechunked batch back under an Output/ prefix, mirroring the event structure
// in its result.
package batch

import "encoding/json"

// Event is the batch-processing input.
type Event struct {
	BucketName string      `json:"bucketName"`
	InputFiles []InputFile `json:"inputFiles"`
}

// InputFile groups the content batches of one logical source document.
// OriginalFileLocation and FileMetadata are passed through uninspected.
type InputFile struct {
	OriginalFileLocation json.RawMessage `json:"originalFileLocation,omitempty"`
	FileMetadata         json.RawMessage `json:"fileMetadata,omitempty"`
	ContentBatches       []ContentBatch  `json:"contentBatches"`
}

// ContentBatch points at one batch object in the store.
type ContentBatch struct {
	Key string `json:"key"`
}

// BatchFile is the JSON shape of a batch object: a list of content records.
type BatchFile struct {
	FileContents []Content `json:"fileContents"`
}

// Content is a single document text plus pass-through typing and metadata.
type Content struct {
	ContentType     string          `json:"contentType,omitempty"`
	ContentMetadata json.RawMessage `json:"contentMetadata,omitempty"`
	ContentBody     string          `json:"contentBody"`
}

// Result mirrors the event with output batch keys substituted in.
type Result struct {
	OutputFiles []OutputFile `json:"outputFiles"`
}

// OutputFile is the processed counterpart of an InputFile.
type OutputFile struct {
	OriginalFileLocation json.RawMessage `json:"originalFileLocation,omitempty"`
	FileMetadata         json.RawMessage `json:"fileMetadata,omitempty"`
	ContentBatches       []ContentBatch  `json:"contentBatches"`
}
