package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/moments/internal/blurhash"
	"github.com/dmitrijs2005/moments/internal/compose"
	"github.com/dmitrijs2005/moments/internal/compressor"
	"github.com/dmitrijs2005/moments/internal/config"
	"github.com/dmitrijs2005/moments/internal/filex"
	"github.com/dmitrijs2005/moments/internal/imagex"
	"github.com/dmitrijs2005/moments/internal/ingest"
	"github.com/dmitrijs2005/moments/internal/ledger"
	"github.com/dmitrijs2005/moments/internal/logging"
	"github.com/dmitrijs2005/moments/internal/storage"
	"github.com/dmitrijs2005/moments/internal/thoughts"
)

// App holds the loaded configuration and builds pipeline components on
// demand, so commands that need no storage never touch credentials.
type App struct {
	config *config.Config
	codec  imagex.JPEGCodec
	log    logging.Logger
	stdin  *os.File

	newUploader func(ctx context.Context, opts storage.Options, log logging.Logger) (storage.Uploader, error)
}

func NewApp(c *config.Config) *App {
	return &App{
		config:      c,
		log:         logging.Nop(),
		stdin:       os.Stdin,
		newUploader: storage.New,
	}
}

// initLogger rebuilds the logger once flags are parsed.
func (a *App) initLogger(w io.Writer) error {
	l, err := logging.New(w, a.config.LogLevel, a.config.LogFormat)
	if err != nil {
		return err
	}
	a.log = l
	return nil
}

func (a *App) httpClient() *http.Client {
	return &http.Client{Timeout: a.config.HTTPTimeout}
}

func (a *App) compressor() *compressor.Compressor {
	return compressor.New(a.codec, a.config.CompressorOptions(), a.log)
}

func (a *App) hasher() *blurhash.Encoder {
	return blurhash.NewEncoder(a.codec)
}

// openLedger opens the ledger database in the data directory. The caller
// closes the returned function.
func (a *App) openLedger(ctx context.Context) (*ledger.SQLiteRepository, func() error, error) {
	if _, err := filex.EnsureDir(a.config.DataDir); err != nil {
		return nil, nil, fmt.Errorf("data dir: %w", err)
	}
	db, err := ledger.Open(ctx, a.config.LedgerPath())
	if err != nil {
		return nil, nil, err
	}
	return ledger.NewSQLiteRepository(db), db.Close, nil
}

// thoughtsClient builds the API client once the base URL is known to be
// usable.
func (a *App) thoughtsClient(hc *http.Client) (*thoughts.Client, error) {
	if err := a.config.ValidateAPI(); err != nil {
		return nil, err
	}
	return thoughts.NewClient(a.config.APIBaseURL, a.config.APIToken, hc), nil
}

// publisher wires the full publish pipeline. The configuration is checked
// first so a bad setting never leaves uploads behind. The returned close
// function releases the ledger.
func (a *App) publisher(ctx context.Context, w io.Writer) (*compose.Publisher, func() error, error) {
	if err := a.config.Validate(); err != nil {
		return nil, nil, err
	}
	if err := a.ensureSecret(w); err != nil {
		return nil, nil, err
	}

	hc := a.httpClient()
	api, err := a.thoughtsClient(hc)
	if err != nil {
		return nil, nil, err
	}
	uploader, err := a.newUploader(ctx, a.config.StorageOptions(hc), a.log)
	if err != nil {
		return nil, nil, err
	}

	repo, closeLedger, err := a.openLedger(ctx)
	if err != nil {
		return nil, nil, err
	}

	orch := ingest.NewOrchestrator(a.codec, a.compressor(), a.hasher(), uploader, a.log,
		ingest.WithWorkers(a.config.Workers),
		ingest.WithRecorder(ledger.NewRecorder(repo)),
		ingest.WithKeyGenerator(storage.NewKeyGenerator(a.config.UploadDir)),
		ingest.WithComponents(a.config.HashX, a.config.HashY),
	)

	token := a.config.APIToken
	check := func(now time.Time) error { return thoughts.CheckToken(token, now) }

	return compose.NewPublisher(orch, api, repo, check, a.log), closeLedger, nil
}
