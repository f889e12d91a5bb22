// file: models/challenge_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChallenge_TestFlag(t *testing.T) {
	ch := Challenge{Flag: "flag{s3cr3t}"}

	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact match", "flag{s3cr3t}", true},
		{"surrounding whitespace trimmed", "  flag{s3cr3t}\n", true},
		{"wrong flag", "flag{wrong}", false},
		{"case sensitive", "FLAG{S3CR3T}", false},
		{"prefix only", "flag{s3cr3", false},
		{"empty input", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ch.TestFlag(tc.input))
		})
	}
}

func TestChallenge_TestFlagSecretWhitespace(t *testing.T) {
	// 录入密钥时带了空白也不影响判定
	ch := Challenge{Flag: " flag{x} "}
	assert.True(t, ch.TestFlag("flag{x}"))
}
