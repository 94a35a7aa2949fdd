package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/eleven-am/call-backend/internal/shared"
	"github.com/google/uuid"
)

// BatchAPI abstracts the Transcribe job operations used by [BatchClient].
// The [transcribe.Client] type satisfies it.
type BatchAPI interface {
	StartTranscriptionJob(ctx context.Context, params *transcribe.StartTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, params *transcribe.GetTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error)
}

// BatchClient transcribes a pre-recorded audio resource through the AWS
// Transcribe job workflow: submit, poll at a fixed interval until the
// job reaches a terminal state, then fetch the transcript document from
// the job's result location.
type BatchClient struct {
	api        BatchAPI
	httpClient *http.Client
	cfg        Config
	log        *slog.Logger
}

func NewBatch(api BatchAPI, cfg Config, log *slog.Logger) *BatchClient {
	if log == nil {
		log = slog.Default()
	}
	return &BatchClient{
		api:        api,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cfg:        normalizeConfig(cfg),
		log:        log.With("component", "batch_transcriber"),
	}
}

// transcriptDocument is the shape of the result document reachable at
// the job's TranscriptFileUri.
type transcriptDocument struct {
	Results struct {
		Transcripts []struct {
			Transcript string `json:"transcript"`
		} `json:"transcripts"`
	} `json:"results"`
}

// Transcribe submits one transcription job and blocks until it completes,
// fails, times out, or ctx is cancelled. The job name is unique per
// invocation so concurrent calls never collide.
func (c *BatchClient) Transcribe(ctx context.Context, mediaURL string) (string, error) {
	jobName := newJobName()
	log := c.log.With("job", jobName)

	_, err := c.api.StartTranscriptionJob(ctx, &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
		Media:                &types.Media{MediaFileUri: aws.String(mediaURL)},
		MediaFormat:          types.MediaFormat(c.cfg.MediaFormat),
		LanguageCode:         types.LanguageCode(c.cfg.LanguageCode),
	})
	if err != nil {
		return "", fmt.Errorf("%w: submit job %s: %v", shared.ErrTranscription, jobName, err)
	}
	log.Info("transcription job submitted", "media_url", mediaURL)

	deadline := time.NewTimer(c.cfg.JobTimeout)
	defer deadline.Stop()
	poll := time.NewTicker(c.cfg.PollInterval)
	defer poll.Stop()

	for {
		out, err := c.api.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
			TranscriptionJobName: aws.String(jobName),
		})
		if err != nil {
			return "", fmt.Errorf("%w: poll job %s: %v", shared.ErrTranscription, jobName, err)
		}

		job := out.TranscriptionJob
		switch job.TranscriptionJobStatus {
		case types.TranscriptionJobStatusCompleted:
			if job.Transcript == nil || job.Transcript.TranscriptFileUri == nil {
				return "", fmt.Errorf("%w: job %s completed without a result location", shared.ErrTranscription, jobName)
			}
			log.Info("transcription job completed")
			return c.fetchTranscript(ctx, aws.ToString(job.Transcript.TranscriptFileUri))

		case types.TranscriptionJobStatusFailed:
			reason := aws.ToString(job.FailureReason)
			log.Warn("transcription job failed", "reason", reason)
			return "", fmt.Errorf("%w: job %s: %s", shared.ErrJobFailed, jobName, reason)
		}

		// QUEUED or IN_PROGRESS: suspend until the next poll tick.
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-deadline.C:
			return "", fmt.Errorf("%w: job %s after %s", shared.ErrJobTimeout, jobName, c.cfg.JobTimeout)
		case <-poll.C:
		}
	}
}

// fetchTranscript retrieves the result document and extracts the first
// transcript field. Fetching a completed job is idempotent: the document
// is immutable once written.
func (c *BatchClient) fetchTranscript(ctx context.Context, resultURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build result request: %v", shared.ErrTranscription, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch result: %v", shared.ErrTranscription, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: fetch result: status %d", shared.ErrTranscription, resp.StatusCode)
	}

	var doc transcriptDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("%w: decode result document: %v", shared.ErrTranscription, err)
	}
	if len(doc.Results.Transcripts) == 0 {
		return "", fmt.Errorf("%w: result document has no transcripts", shared.ErrTranscription)
	}

	return doc.Results.Transcripts[0].Transcript, nil
}

func newJobName() string {
	return fmt.Sprintf("transcription-%d-%s", time.Now().Unix(), uuid.NewString()[:8])
}
