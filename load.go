package eskit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/thalesfsp/customerror"
)

//////
// Exported functionalities.
//////

// LoadDocuments streams the dataset into the given index in fixed-size
// chunks, one upsert per record. Missing-value fields are stripped, the
// suggest column (if configured) is copied into the completion field, and
// per-document failures are logged and collected without aborting the load.
// The returned error is reserved for infrastructural failures; partial
// failure is reported through the result.
//
//nolint:gocognit
func (s *Stack) LoadDocuments(
	ctx context.Context,
	index string,
	dataset Dataset,
	opts *LoadOptions,
) (*LoadResult, error) {
	if index == "" {
		return nil, ErrorCatalog.MustGet(ErrIndexNameRequired).NewRequiredError()
	}

	if dataset == nil {
		return nil, ErrorCatalog.MustGet(ErrDatasetRequired).NewRequiredError()
	}

	if opts == nil {
		o, err := NewLoadOptions()
		if err != nil {
			return nil, err
		}

		opts = o
	}

	if opts.ChunkSize < 1 {
		opts.ChunkSize = DefaultChunkSize
	}

	client, err := s.ES()
	if err != nil {
		return nil, err
	}

	if opts.DeleteOld {
		if err := s.DeleteIndex(ctx, index); err != nil {
			return nil, err
		}
	}

	metrics, err := NewLoadMetrics()
	if err != nil {
		return nil, err
	}

	result := &LoadResult{
		Succeeded: 0,
		Failures:  make([]FailedDocument, 0),
		Metrics:   metrics,
	}

	total := dataset.Len()

	chunks := (total + opts.ChunkSize - 1) / opts.ChunkSize

	start := time.Now()

	for chunk := 0; chunk < chunks; chunk++ {
		lo, hi := chunkBounds(total, opts.ChunkSize, chunk)

		for i := lo; i < hi; i++ {
			// Breaks the load if the context errored for any reason.
			if err := ctx.Err(); err != nil {
				return result, err
			}

			record := dataset.Record(i)

			doc := stripMissing(record)

			if opts.SuggestColumn != "" {
				if v, ok := doc[opts.SuggestColumn]; ok {
					doc["suggest"] = v
				}
			}

			id := s.resolveID(dataset, record, i, opts)

			data, err := json.Marshal(doc)
			if err != nil {
				s.recordFailure(result, id, doc, err, nil)

				continue
			}

			indexOpts := []func(*esapi.IndexRequest){
				client.Index.WithContext(ctx),
				client.Index.WithDocumentID(id),
			}

			if opts.Refresh {
				indexOpts = append(indexOpts, client.Index.WithRefresh("true"))
			}

			res, err := client.Index(index, bytes.NewReader(data), indexOpts...)
			if err != nil {
				s.recordFailure(result, id, doc, err, nil)

				continue
			}

			if res.IsError() {
				var envelope ErrorEnvelope

				//nolint:errcheck
				json.NewDecoder(res.Body).Decode(&envelope)

				res.Body.Close()

				s.recordFailure(result, id, doc, nil, &envelope)

				continue
			}

			res.Body.Close()

			metrics.IncreaseDocsProcessed()

			metrics.IncreaseDocsSucceeded()

			metrics.UpdateBytesProcessed(int64(len(data)))

			result.Succeeded++
		}

		metrics.IncreaseChunksProcessed()

		if opts.OnChunk != nil {
			opts.OnChunk(chunk+1, chunks)
		}
	}

	metrics.UpdateStatus(StatusDone)

	elapsed := time.Since(start).Truncate(time.Millisecond)

	logger.Infolnf(
		"indexed %s documents into %q (%s failed) in %s",
		humanize.Comma(int64(result.Succeeded)),
		index,
		humanize.Comma(int64(len(result.Failures))),
		elapsed,
	)

	return result, nil
}

//////
// Internal functionalities.
//////

// resolveID determines the document ID for row i: the override function, the
// configured ID column, or the dataset's row label.
func (s *Stack) resolveID(
	dataset Dataset,
	record map[string]any,
	i int,
	opts *LoadOptions,
) string {
	if opts.DocumentIDFunc != nil {
		return opts.DocumentIDFunc(record, i)
	}

	if opts.IDColumn != "" {
		if v, ok := record[opts.IDColumn]; ok {
			return fmt.Sprintf("%v", v)
		}
	}

	return dataset.Label(i)
}

// recordFailure logs a per-document failure with the offending document and
// collects it into the result. Loading continues with the next document.
func (s *Stack) recordFailure(
	result *LoadResult,
	id string,
	doc map[string]any,
	err error,
	envelope *ErrorEnvelope,
) {
	failure := FailedDocument{
		ID:       id,
		Document: doc,
	}

	if envelope != nil {
		failure.Status = envelope.Status

		if envelope.Error != nil {
			failure.Reason = envelope.Error.Reason

			failure.Err = ErrorCatalog.
				MustGet(ErrFailedToIndexDocument).
				NewFailedToError(
					customerror.WithField("docID", id),
					customerror.WithField("reason", envelope.Error.Reason),
					customerror.WithField("type", envelope.Error.Type),
				)
		}
	}

	if failure.Err == nil {
		failure.Err = ErrorCatalog.
			MustGet(ErrFailedToIndexDocument).
			NewFailedToError(
				customerror.WithError(err),
				customerror.WithField("docID", id),
			)
	}

	logger.Errorlnf("%s", failure.Err)

	logger.Errorlnf("offending document: %+v", doc)

	result.Metrics.IncreaseDocsProcessed()

	result.Metrics.IncreaseDocsFailed()

	result.Failures = append(result.Failures, failure)
}
