package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Remote status ids, fixed wire contract.
const (
	statusInQueue    = 1
	statusProcessing = 2
	statusAccepted   = 3
)

// PollerConfig bounds the wait for one execution: Attempts polls spaced
// Interval apart, roughly ten seconds total with the defaults. The interval
// is fixed rather than backing off because the service's own queueing SLA is
// short; the hard cap is what matters, so one slow case cannot stall an
// entire evaluation.
type PollerConfig struct {
	BaseURL   string
	AuthToken string
	Interval  time.Duration
	Attempts  int
}

// Poller queries the status of a judge token until it reaches a terminal
// state or the attempt budget runs out.
type Poller struct {
	httpClient *http.Client
	cfg        PollerConfig
}

func NewPoller(cfg PollerConfig) *Poller {
	return &Poller{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cfg:        cfg,
	}
}

type statusResponse struct {
	Status struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
	Stdout        *string  `json:"stdout"`
	Stderr        *string  `json:"stderr"`
	CompileOutput *string  `json:"compile_output"`
	Memory        *float64 `json:"memory"`
	Time          *string  `json:"time"`
}

// Poll resolves one token to a terminal CaseResult. It never returns an
// error: transport failures become an infra-error outcome and an exhausted
// attempt budget becomes a timeout outcome, both of which the aggregation
// layer treats as ordinary failing cases.
func (p *Poller) Poll(ctx context.Context, token string) CaseResult {
	for attempt := 0; attempt < p.cfg.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return CaseResult{Outcome: OutcomeInfraError, Diagnostic: ctx.Err().Error()}
			case <-time.After(p.cfg.Interval):
			}
		}

		status, err := p.query(ctx, token)
		if err != nil {
			// An unreachable service will not recover within our budget;
			// stop polling instead of burning the remaining attempts.
			return CaseResult{Outcome: OutcomeInfraError, Diagnostic: err.Error()}
		}

		if status.Status.ID == statusInQueue || status.Status.ID == statusProcessing {
			continue
		}
		return p.terminal(status)
	}
	return CaseResult{Outcome: OutcomeTimeout, Diagnostic: "exceeded wait time"}
}

func (p *Poller) query(ctx context.Context, token string) (*statusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/submissions/"+token, nil)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}
	if p.cfg.AuthToken != "" {
		req.Header.Set("X-Auth-Token", p.cfg.AuthToken)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll judge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("judge poll returned status %d", resp.StatusCode)
	}

	var parsed statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}
	return &parsed, nil
}

// terminal maps a terminal wire status to a CaseResult. Status id 3 means
// accepted; for any other terminal id the service's textual description is
// carried through as the diagnostic.
func (p *Poller) terminal(status *statusResponse) CaseResult {
	if status.Status.ID == statusAccepted {
		return CaseResult{
			Outcome:  OutcomeOK,
			MemoryKb: memoryKb(status.Memory),
			TimeMs:   timeMs(status.Time),
		}
	}
	return CaseResult{
		Outcome:    ClassifyDiagnostic(status.Status.Description),
		Diagnostic: status.Status.Description,
	}
}

// ClassifyDiagnostic buckets a terminal failure description. Compilation
// failures and CPU-time excess are fatal to the whole submission, everything
// else counts as a wrong answer.
func ClassifyDiagnostic(description string) Outcome {
	switch {
	case description == "":
		return OutcomeUnknown
	case strings.Contains(description, "Compilation"):
		return OutcomeCompileError
	case strings.Contains(description, "Time Limit"):
		return OutcomeTimeLimit
	default:
		return OutcomeWrongAnswer
	}
}

func memoryKb(memory *float64) int {
	if memory == nil {
		return 0
	}
	return int(*memory)
}

// timeMs converts the service's time field, seconds as a decimal string,
// into integer milliseconds.
func timeMs(t *string) int {
	if t == nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(*t, 64)
	if err != nil {
		return 0
	}
	return int(seconds * 1000)
}
