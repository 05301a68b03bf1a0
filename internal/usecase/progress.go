package usecase

import (
	"io"

	"github.com/MichaelVenturi/House-marketplace/pkg/logger"
)

// progressReader logs upload progress in quarter steps.
type progressReader struct {
	r        io.Reader
	name     string
	total    int64
	read     int64
	reported int64
}

func newProgressReader(r io.Reader, total int64, name string) *progressReader {
	return &progressReader{r: r, total: total, name: name}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)

	if step := p.Percent() / 25 * 25; step > p.reported {
		p.reported = step
		logger.Debug("Upload of %s is %d%% done", p.name, step)
	}
	return n, err
}

// Percent is 0 while the total size is unknown.
func (p *progressReader) Percent() int64 {
	if p.total <= 0 {
		return 0
	}
	return p.read * 100 / p.total
}
