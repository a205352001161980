package sqldb

import (
	"io"

	"github.com/hashicorp/go-multierror"
)

// owned tracks children that must be released before their parent.
type owned map[io.Closer]struct{}

func (o owned) add(c io.Closer) {
	o[c] = struct{}{}
}

func (o owned) remove(c io.Closer) {
	delete(o, c)
}

// closeAll closes every child. Children remove themselves while closing.
func (o owned) closeAll() error {
	var result *multierror.Error
	for c := range o {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		delete(o, c)
	}
	return result.ErrorOrNil()
}
