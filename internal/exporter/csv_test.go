package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetsnap/internal/dataprocessing"
)

func TestWriteCSV(t *testing.T) {
	tbl := dataprocessing.NewTable([]string{"driver_name", "violation_type"})
	tbl.AppendRow([]string{"Ann Lee", "Missing Certification"})
	tbl.AppendRow([]string{"Bo, Jr.", "Shift Duty Limit"})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl, WriteOptions{}))

	assert.Equal(t,
		"driver_name,violation_type\nAnn Lee,Missing Certification\n\"Bo, Jr.\",Shift Duty Limit\n",
		buf.String(), "cells containing commas are quoted")
}

func TestWriteCSV_BOMPrefix(t *testing.T) {
	tbl := dataprocessing.NewTable([]string{"a"})
	tbl.AppendRow([]string{"1"})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl, WriteOptions{BOMPrefix: true}))

	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, buf.Bytes()[:3])
}

func TestWriteCSV_EmptyTable(t *testing.T) {
	tbl := dataprocessing.NewTable([]string{"week", "violation_type"})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl, WriteOptions{}))
	assert.Equal(t, "week,violation_type\n", buf.String())
}
