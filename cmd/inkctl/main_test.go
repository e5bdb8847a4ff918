// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package main

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPromptLine_SharedReaderKeepsEveryField(t *testing.T) {
	// Piped input for two consecutive prompts. Buffering past the first
	// newline must not cost the second prompt its line.
	input := bufio.NewReader(strings.NewReader("Ada Lovelace\nada@example.com\n"))

	name, err := promptLine(input, "Name: ")
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", name)

	email, err := promptLine(input, "Email: ")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", email)
}

func TestPromptLine_LastLineWithoutNewline(t *testing.T) {
	input := bufio.NewReader(strings.NewReader("ada@example.com"))

	email, err := promptLine(input, "Email: ")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", email)
}
