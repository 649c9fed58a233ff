package httpapi

import (
	"bytes"

	"github.com/custodia-labs/insightly-cli/internal/core/ports/driven"
)

// uploadProgressCap is the highest percentage reported before the server
// accepts the upload. 100 is reported once, after a successful response.
const uploadProgressCap = 99

// progressReader reports the share of body bytes read by the transport.
type progressReader struct {
	r     *bytes.Reader
	total int
	sent  int
	last  float64
	fn    driven.ProgressFunc
}

func newProgressReader(body []byte, fn driven.ProgressFunc) *progressReader {
	return &progressReader{r: bytes.NewReader(body), total: len(body), last: -1, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.sent += n
	if n > 0 || p.total == 0 {
		p.report()
	}
	return n, err
}

func (p *progressReader) report() {
	pct := float64(uploadProgressCap)
	if p.total > 0 {
		pct = float64(p.sent) * 100 / float64(p.total)
		if pct > uploadProgressCap {
			pct = uploadProgressCap
		}
	}
	if pct > p.last {
		p.last = pct
		p.fn(pct)
	}
}
