// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain_Key(t *testing.T) {
	t.Run("will join names with a dot", func(t *testing.T) {
		c := Chain{Name("datadog"), Name("batch_processor"), Name("max_queue_size")}
		if !assert.Equal(t, "datadog.batch_processor.max_queue_size", c.Key()) {
			return
		}
	})
}

func TestSplit(t *testing.T) {
	t.Run("will drop empty segments", func(t *testing.T) {
		c := Split(".trace..service_name")
		if !assert.Equal(t, Chain{Name("trace"), Name("service_name")}, c) {
			return
		}
	})
}
