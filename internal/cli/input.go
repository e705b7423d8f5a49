package cli

import (
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/dmitrijs2005/moments/internal/storage"
)

// readPassword and isTerminal are test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// GetSecret prints prompt to w and reads a secret from the terminal without
// echo. The caller should wipe the returned bytes.
func GetSecret(fd int, prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	secret, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return secret, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ensureSecret asks for the storage secret when the configuration has none
// and stdin is a terminal. Without a terminal the backend reports the
// missing credential itself.
func (a *App) ensureSecret(w io.Writer) error {
	var (
		dst    *string
		prompt string
	)
	switch a.config.StorageBackend {
	case "", storage.BackendOSS:
		dst, prompt = &a.config.OSSAccessKeySecret, "OSS access key secret"
	case storage.BackendS3:
		// Without a key ID the AWS default credential chain applies.
		if a.config.S3AccessKeyID == "" {
			return nil
		}
		dst, prompt = &a.config.S3SecretAccessKey, "S3 secret access key"
	default:
		return nil
	}

	if *dst != "" || a.stdin == nil {
		return nil
	}
	fd := int(a.stdin.Fd())
	if !isTerminal(fd) {
		return nil
	}

	secret, err := GetSecret(fd, prompt, w)
	if err != nil {
		return fmt.Errorf("read secret: %w", err)
	}
	defer wipe(secret)
	*dst = string(secret)
	return nil
}
