// Package ports defines the interfaces the core domain logic requires
// of its external collaborators: the tokeniser, the persistence engine,
// and the station-mapping source. Concrete implementations live under
// adapters/.
package ports

import (
	"context"
	"io"

	"fishtrack/domain/format"
)

// Tokeniser reads tabular bytes into a format.Table. Implementations
// must accept UTF-8 with a BOM and re-detect a tab separator when the
// first decode yields a single column.
type Tokeniser interface {
	ReadTable(ctx context.Context, r io.Reader) (format.Table, error)
}
