package runtime

// Blob is binary data stored in a BLOB column.
type Blob struct {
	data []byte
}

// NewBlob returns a blob holding b.
func NewBlob(b []byte) Blob { return Blob{data: b} }

// Bytes returns the data of the blob.
func (b Blob) Bytes() []byte { return b.data }

// Len returns the size of the blob.
func (b Blob) Len() int { return len(b.data) }
