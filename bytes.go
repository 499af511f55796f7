package dif

import (
	"github.com/blockguard/godif/internal/pool"
	"github.com/blockguard/godif/sgl"
)

// GenerateBytes generates PI in place over a single contiguous interleaved
// buffer — the common case where the caller already has one []byte rather
// than a scatter-gather list.
func GenerateBytes(c *Context, payload []byte) error {
	return c.Generate(sgl.List{payload})
}

// VerifyBytes verifies PI over a single contiguous interleaved buffer.
func VerifyBytes(c *Context, payload []byte) (ErrorRecord, bool, error) {
	return c.Verify(sgl.List{payload})
}

// GenerateCopyBytes allocates an extended buffer sized for len(data) and
// fills it with data interleaved with freshly generated PI, using a
// pooled staging buffer to avoid a bare allocation on every call. The
// returned slice is owned by the caller; data must be an exact multiple of
// the context's guard interval.
func GenerateCopyBytes(c *Context, data []byte) ([]byte, error) {
	bounceLen := (len(data) / c.guardInterval) * c.blockSize

	bb := pool.Get()
	defer pool.Put(bb)
	bb.ExtendOrGrow(bounceLen)

	if err := c.GenerateCopy(sgl.List{data}, sgl.List{bb.Bytes()}); err != nil {
		return nil, err
	}

	out := make([]byte, bounceLen)
	copy(out, bb.Bytes())

	return out, nil
}

// VerifyCopyBytes verifies an extended buffer and returns its data-only
// content with PI stripped out, using a pooled staging buffer for the
// intermediate copy.
func VerifyCopyBytes(c *Context, bounce []byte) ([]byte, ErrorRecord, bool, error) {
	numBlocks := len(bounce) / c.blockSize
	dataLen := numBlocks * c.guardInterval

	bb := pool.Get()
	defer pool.Put(bb)
	bb.ExtendOrGrow(dataLen)

	rec, ok, err := c.VerifyCopy(sgl.List{bounce}, sgl.List{bb.Bytes()})
	if err != nil || !ok {
		return nil, rec, ok, err
	}

	out := make([]byte, dataLen)
	copy(out, bb.Bytes())

	return out, rec, ok, nil
}
