package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	quotedLiteral = regexp.MustCompile(`'[^']*'`)

	pushData = []struct {
		width int
		re    *regexp.Regexp
	}{
		{1, regexp.MustCompile(`(?i)\b(?:OP_)?PUSHDATA1\s+0x[0-9a-f]{1,2}\s+0x([0-9a-f]+)\b`)},
		{2, regexp.MustCompile(`(?i)\b(?:OP_)?PUSHDATA2\s+0x[0-9a-f]{1,4}\s+0x([0-9a-f]+)\b`)},
		{4, regexp.MustCompile(`(?i)\b(?:OP_)?PUSHDATA4\s+0x[0-9a-f]{1,8}\s+0x([0-9a-f]+)\b`)},
	}

	smallNumberPush = regexp.MustCompile(`\b0x01\s+(1[0-6]|[1-9])\b`)

	sizedPush = regexp.MustCompile(`\b0x([0-9a-fA-F]{1,2})\s+0x([0-9a-fA-F]+)\b`)

	aliases = []struct {
		re   *regexp.Regexp
		name string
	}{
		{regexp.MustCompile(`(?i)\b(?:OP_)?1ADD\b`), "add1"},
		{regexp.MustCompile(`(?i)\b(?:OP_)?1SUB\b`), "sub1"},
		{regexp.MustCompile(`(?i)\b(?:OP_)?2MUL\b`), "mul2"},
		{regexp.MustCompile(`(?i)\b(?:OP_)?2DIV\b`), "div2"},
	}

	hexOnly = regexp.MustCompile(`^[0-9a-fA-F]+$`)
)

// Normalize rewrites one script into the harness dialect:
//
//	PUSHDATA1 0x01 0x07   -> [1.07]
//	0x01 11               -> [5b]
//	0x02 0x417a           -> [417a]
//	OP_1ADD               -> add1
//	OP_DUP HASH160        -> dup hash160
//
// Tokens are rejoined with single spaces.
func Normalize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	masked, restore := protectLiterals(s)
	masked = compactPushData(masked)
	masked = compactSmallNumbers(masked)
	masked = compactSizedPushes(masked)
	masked = renameAliases(masked)
	masked = lowerOpcodes(masked)
	return restore(masked)
}

// placeholder never matches any rewrite rule and survives whitespace
// tokenization as part of a single token.
func placeholder(i int) string {
	return "\x00" + strconv.Itoa(i) + "\x00"
}

func isPlaceholder(tok string) bool {
	if len(tok) < 3 || tok[0] != 0 || tok[len(tok)-1] != 0 {
		return false
	}
	_, err := strconv.Atoi(tok[1 : len(tok)-1])
	return err == nil
}

func protectLiterals(s string) (string, func(string) string) {
	var pairs []string
	masked := quotedLiteral.ReplaceAllStringFunc(s, func(lit string) string {
		p := placeholder(len(pairs) / 2)
		pairs = append(pairs, p, lit)
		return p
	})
	if len(pairs) == 0 {
		return s, func(out string) string { return out }
	}
	r := strings.NewReplacer(pairs...)
	return masked, r.Replace
}

func compactPushData(s string) string {
	for _, pd := range pushData {
		s = pd.re.ReplaceAllStringFunc(s, func(m string) string {
			data := pd.re.FindStringSubmatch(m)[1]
			return fmt.Sprintf("[%d.%s]", pd.width, data)
		})
	}
	return s
}

func compactSmallNumbers(s string) string {
	return smallNumberPush.ReplaceAllStringFunc(s, func(m string) string {
		n, _ := strconv.Atoi(smallNumberPush.FindStringSubmatch(m)[1])
		return fmt.Sprintf("[%02x]", 0x50+n)
	})
}

// compactSizedPushes folds "0x<len> 0x<data>" into "[<data>]" when the
// declared length matches. Mismatches are left as written.
func compactSizedPushes(s string) string {
	return sizedPush.ReplaceAllStringFunc(s, func(m string) string {
		sub := sizedPush.FindStringSubmatch(m)
		size, err := strconv.ParseUint(sub[1], 16, 8)
		data := sub[2]
		if err != nil || len(data)%2 != 0 || int(size) != len(data)/2 {
			return m
		}
		return "[" + data + "]"
	})
}

func renameAliases(s string) string {
	for _, a := range aliases {
		s = a.re.ReplaceAllString(s, a.name)
	}
	return s
}

func lowerOpcodes(s string) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if preserveCase(tok) {
			continue
		}
		tok = strings.ToLower(tok)
		tokens[i] = strings.TrimPrefix(tok, "op_")
	}
	return strings.Join(tokens, " ")
}

func preserveCase(tok string) bool {
	switch {
	case isPlaceholder(tok):
		return true
	case strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]"):
		return true
	case strings.HasPrefix(tok, "0x"):
		return true
	case len(tok) > 2 && len(tok)%2 == 0 && hexOnly.MatchString(tok):
		return true
	}
	return false
}
