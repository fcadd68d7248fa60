package scheduling

import (
	"math/rand/v2"
	"strings"
)

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz"

// LinkGenerator produces video-call URLs of the form
// https://<host>/abc-def-ghi. The slug is not a secret, so a non-cryptographic
// source is enough.
type LinkGenerator struct {
	host string
	intn func(n int) int
}

func NewLinkGenerator(host string) *LinkGenerator {
	return &LinkGenerator{host: host, intn: rand.IntN}
}

// NewSeededLinkGenerator is deterministic for a given seed.
func NewSeededLinkGenerator(host string, seed uint64) *LinkGenerator {
	r := rand.New(rand.NewPCG(seed, seed))
	return &LinkGenerator{host: host, intn: r.IntN}
}

func (g *LinkGenerator) Generate() string {
	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(g.host)
	b.WriteByte('/')
	for group := 0; group < 3; group++ {
		if group > 0 {
			b.WriteByte('-')
		}
		for i := 0; i < 3; i++ {
			b.WriteByte(slugAlphabet[g.intn(len(slugAlphabet))])
		}
	}
	return b.String()
}
