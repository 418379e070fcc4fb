package batch_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"sitefinder/internal/batch"
	"sitefinder/pkg/domain"
	"sitefinder/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

// fakeDiscoverer returns a per-name canned result and tracks concurrency.
type fakeDiscoverer struct {
	mu         sync.Mutex
	inFlight   int
	maxFlight  int
	seenModes  map[domain.Mode]int
	resultFor  func(record domain.BusinessRecord) domain.DiscoveryResult
	blockUntil chan struct{}
}

func (f *fakeDiscoverer) Discover(_ context.Context, record domain.BusinessRecord, mode domain.Mode) domain.DiscoveryResult {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxFlight {
		f.maxFlight = f.inFlight
	}
	if f.seenModes == nil {
		f.seenModes = map[domain.Mode]int{}
	}
	f.seenModes[mode]++
	f.mu.Unlock()

	if f.blockUntil != nil {
		<-f.blockUntil
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if f.resultFor != nil {
		return f.resultFor(record)
	}

	return domain.DiscoveryResult{Status: domain.StatusNotFound}
}

func (f *fakeDiscoverer) Verify(_ context.Context, _ string, _ domain.BusinessRecord) (domain.Evaluation, error) {
	return domain.Evaluation{}, nil
}

func TestRun_preservesInputOrder(t *testing.T) {
	fake := &fakeDiscoverer{resultFor: func(record domain.BusinessRecord) domain.DiscoveryResult {
		return domain.DiscoveryResult{
			URL:    "https://" + strings.ToLower(record.Name) + ".it/",
			Status: domain.StatusFoundValid,
		}
	}}
	r := batch.New(fake, batch.Options{Concurrency: 3, Mode: domain.ModeFast})

	in := strings.NewReader(
		`{"name":"Alfa"}` + "\n" +
			"\n" +
			`{"name":"Beta"}` + "\n" +
			`{"name":"Gamma"}` + "\n")
	var out bytes.Buffer
	require.NoError(t, r.Run(context.Background(), in, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var got []batch.Line
	for _, l := range lines {
		var line batch.Line
		require.NoError(t, json.Unmarshal([]byte(l), &line))
		got = append(got, line)
	}
	require.Equal(t, "Alfa", got[0].Record.Name)
	require.Equal(t, "https://alfa.it/", got[0].Result.URL)
	require.Equal(t, "Beta", got[1].Record.Name)
	require.Equal(t, "Gamma", got[2].Record.Name)
	require.Equal(t, 3, fake.seenModes[domain.ModeFast])
}

func TestRun_malformedLineAborts(t *testing.T) {
	r := batch.New(&fakeDiscoverer{}, batch.Options{})

	in := strings.NewReader(`{"name":"Alfa"}` + "\n" + "{nope\n")
	var out bytes.Buffer
	err := r.Run(context.Background(), in, &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 2")
}

func TestRun_emptyInput(t *testing.T) {
	r := batch.New(&fakeDiscoverer{}, batch.Options{})

	var out bytes.Buffer
	require.NoError(t, r.Run(context.Background(), strings.NewReader(""), &out))
	require.Empty(t, strings.TrimSpace(out.String()))
}

func TestRun_boundedConcurrency(t *testing.T) {
	release := make(chan struct{})
	fake := &fakeDiscoverer{blockUntil: release}
	r := batch.New(fake, batch.Options{Concurrency: 2})

	var in strings.Builder
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		in.WriteString(`{"name":"` + name + `"}` + "\n")
	}

	done := make(chan error, 1)
	go func() {
		var out bytes.Buffer
		done <- r.Run(context.Background(), strings.NewReader(in.String()), &out)
	}()

	close(release)
	require.NoError(t, <-done)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.LessOrEqual(t, fake.maxFlight, 2)
}
