package ux

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archway-warp/warp-cli/internal/chain"
)

func init() {
	color.NoColor = true
}

func TestPrinterProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Header("Uploading contracts to the chain...")
	p.Step("%s", "artifacts/cw20.wasm")
	p.Done("(%s) - CODE: %s", "HASH", "7")

	assert.Equal(t, "Uploading contracts to the chain...\n => artifacts/cw20.wasm\n    Done (HASH) - CODE: 7\n", buf.String())
}

func TestPrinterErrorIncludesRawLog(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Error(fmt.Errorf("failed to store: %w", &chain.TxFailedError{TxHash: "H", Code: 5, RawLog: "out of gas"}))
	assert.Contains(t, buf.String(), "Error: failed to store: transaction H failed with code 5: out of gas")
	assert.Contains(t, buf.String(), "Raw log:\nout of gas")

	buf.Reset()
	p.Error(errors.New("plain"))
	assert.Equal(t, "Error: plain\n", buf.String())
}

func TestPrinterTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf).Table(
		[]string{"Step", "Address"},
		[][]string{{"cw20", "archway1token"}},
	))

	assert.Contains(t, buf.String(), "cw20")
	assert.Contains(t, buf.String(), "archway1token")
}
