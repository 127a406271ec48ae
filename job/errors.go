package job

import "errors"

// ErrNoRasterData is returned by Decode when a stream contains a
// complete, well-formed preamble and command sequence but never
// produces a single raster band, so no image could be assembled.
var ErrNoRasterData = errors.New("job: stream contained no raster data")
