/*package format handles zrd's miniature formatting languages, e.g:

   zrd dump lens.zrd --rays "0..100 - 63"
   zrd synth "synth/rays.{%03d,0..9}.zrd" --rays 1000

Sequence formats are a generic way to specify non-contiguous sequences of
natural numbers. They consist of a series of n tokens separated by "+" or "-".
Each token can be either a number or two numbers separted by "..". E.g.:

  100
  0..100
  0..10 + 100
  0..100 - 63 - 10..20

These strings build up sequences of numbers by adding/removing individual
numbers and contiguous sequences. For example, 0 through 10 would be 0..10,
1, 2, 3, 15, 16, 17 could be written as  1..17 - 4..13. This is useful for
picking out a handful of rays from a large file.

File format strings are a combination of fixed text and variables. Fixed text is
always the same, and variables can change from file to file. Variables are
written as {verb,sequence}. "verb" is a printf() verb (e.g. %03d) that specifies
how the variable should be printed and "sequence" is a sequence format giving
the values it takes on.

All spaces around "-", "+", and "," symbols are ignored.
*/
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	zrd_error "github.com/phil-mansfield/zrd/lib/error"
)

const (
	// Any expanded formats which would have more than BigNumber elements are
	// assumed to be bugs.
	BigNumber = 1 << 20
)

// ExpandSequenceFormat expands a sequence format string into a sorted sequence
// of integers.
func ExpandSequenceFormat(format string) ([]int, error) {
	// Parse and error-check the format string.
	tok, err := tokeniseSequenceFormat(format)
	if err != nil {
		return nil, err
	}
	adds, subs, err := addsSubsSequenceFormat(tok)
	if err != nil {
		return nil, err
	}

	// Refuse huge ranges before anything is allocated for them.
	size := 0
	for i := range adds {
		size += sequenceFormatTokenSize(adds[i])
		if size > BigNumber {
			return nil, fmt.Errorf("This sequence would have more than %d "+
				"elements, which is almost certianly a bug.", BigNumber)
		}
	}

	// Add numbers to the sequence.
	m := map[int]int{}
	for i := range adds {
		ns := parseSequenceFormatToken(adds[i])
		for _, n := range ns {
			if _, ok := m[n]; ok {
				return nil, fmt.Errorf("The number %d is added more than once.", n)
			}
			m[n] = n
		}
	}

	// Remove numbers from the sequence.
	for i := range subs {
		if sequenceFormatTokenSize(subs[i]) > BigNumber {
			return nil, fmt.Errorf("The token '%s' removes more than %d "+
				"elements, which is almost certianly a bug.", subs[i], BigNumber)
		}
		ns := parseSequenceFormatToken(subs[i])
		for _, n := range ns {
			if _, ok := m[n]; !ok {
				return nil, fmt.Errorf("The number %d is removed more times than it was inserted.", n)
			}
			delete(m, n)
		}
	}

	// Convert to a sorted array of integers.
	out := []int{}
	for n := range m {
		out = append(out, n)
	}
	sort.Ints(out)

	return out, nil
}

// tokeniseSequenceFormat tokenizes a SeqeunceFormat string. This means that
// is separates all the numbers, ranges, and operators into their own strings.
func tokeniseSequenceFormat(format string) ([]string, error) {
	// Make sure all operators are separated by spaces.
	formatClean := strings.ReplaceAll(format, "+", " + ")
	formatClean = strings.ReplaceAll(formatClean, "-", " - ")

	// Tokenize and remove empty tokens.
	tokRaw := strings.Fields(formatClean)
	tok := []string{}
	for i := range tokRaw {
		if len(tokRaw[i]) > 0 {
			tok = append(tok, tokRaw[i])
		}
	}

	if len(tok) == 0 {
		return nil, fmt.Errorf("The format string is empty.")
	}
	return tok, nil
}

func addsSubsSequenceFormat(tok []string) (adds, subs []string, err error) {
	if len(tok) == 0 {
		return nil, nil, fmt.Errorf("Format string is empty")
	}

	// Handle the case where the starting "+" is dropped.
	adds, subs = []string{}, []string{}
	var start int
	if tok[0] == "+" || tok[0] == "-" {
		start = 0
	} else {
		if err := isSequenceFormatToken(tok[0]); err != nil {
			return nil, nil, fmt.Errorf(
				"Element number %d, '%s', cannot be parsed because %s",
				1, tok[0], err.Error(),
			)
		}

		adds = append(adds, tok[0])
		start = 1
	}

	for i := start; i < len(tok); i += 2 {
		if tok[i] != "-" && tok[i] != "+" {
			return nil, nil, fmt.Errorf(
				"Element number %d, '%s', should be a '-' or '+', but isn't.",
				i+1, tok[i])
		}

		if i+1 >= len(tok) {
			return nil, nil, fmt.Errorf(
				"The format string ends in a trailing '%s'", tok[i],
			)
		}

		if err := isSequenceFormatToken(tok[i+1]); err != nil {
			return nil, nil, fmt.Errorf(
				"Element number %d, '%s', cannot be parsed because %s",
				i+2, tok[i+1], err.Error(),
			)
		}

		if tok[i] == "+" {
			adds = append(adds, tok[i+1])
		} else {
			subs = append(subs, tok[i+1])
		}
	}

	return adds, subs, nil
}

// isSequenceFormatToken returns a nil error is tok is a valid token for
// a sequence format and an error describing the problem otherwise. The error
// message assumes it is printed after a trailing "beacause"
func isSequenceFormatToken(tok string) error {
	if len(tok) == 0 {
		return fmt.Errorf("the format string is empty.")
	}

	bounds := strings.Split(tok, "..")

	switch len(bounds) {
	case 1:
		_, err := strconv.Atoi(bounds[0])
		if err != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		return nil
	case 2:
		start, err1 := strconv.Atoi(bounds[0])
		if err1 != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		end, err2 := strconv.Atoi(bounds[1])
		if err2 != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[1])
		}
		if end < start {
			return fmt.Errorf("lower bound %d is larger than upper bound %d.",
				start, end)
		}

		return nil
	}
	return fmt.Errorf("it has more than one '..'.")
}

// sequenceFormatTokenSize returns the number of integers a valid token
// expands to.
func sequenceFormatTokenSize(tok string) int {
	bounds := strings.Split(tok, "..")
	if len(bounds) != 2 {
		return 1
	}
	start, _ := strconv.Atoi(bounds[0])
	end, _ := strconv.Atoi(bounds[1])
	if end-start+1 < 0 {
		return BigNumber + 1
	}
	return end - start + 1
}

// parseSeqeunceFormatToken parses a single token in a seqeunce format stirng
// and returns the corresponding array of numbers. This function assumes that
// the tests in isSequenceFormatToken have already been run and thus does no
// error checking. This makes sense to do because the calling funciton has
// already removed location information from these tokens, so the error
// message would be less informative.
func parseSequenceFormatToken(tok string) []int {
	bounds := strings.Split(tok, "..")

	switch len(bounds) {
	case 1:
		n, _ := strconv.Atoi(tok)
		return []int{n}
	case 2:
		start, _ := strconv.Atoi(bounds[0])
		end, _ := strconv.Atoi(bounds[1])
		out := []int{}
		for n := start; n <= end; n++ {
			out = append(out, n)
		}

		return out
	}

	zrd_error.Internal(
		"Invalid sequence format token, '%s', passed isSeqeunceFormatToken()",
		tok,
	)
	return nil
}

// ExpandFileFormat expands a file format string into every file name it
// describes. Each variable must have a printf verb and a sequence format as
// its rule, e.g. "rays.{%03d,0..9 - 4}.zrd". Names are generated with the
// leftmost variable varying slowest.
func ExpandFileFormat(format string) ([]string, error) {
	starts, ends, err := startsEndsFormatString(format)
	if err != nil {
		return nil, err
	}
	comp, err := NewFileFormatComponents(format, starts, ends)
	if err != nil {
		return nil, err
	}

	total := 1
	for i := range comp.Values {
		total *= len(comp.Values[i])
		if total > BigNumber {
			return nil, fmt.Errorf("The file format '%s' would expand to "+
				"more than %d names, which is almost certainly a bug.",
				format, BigNumber)
		}
	}

	out := make([]string, 0, total)
	idx := make([]int, len(comp.Values))
	for n := 0; n < total; n++ {
		sb := &strings.Builder{}
		for i := range comp.Verbs {
			sb.WriteString(comp.Separators[i])
			fmt.Fprintf(sb, comp.Verbs[i], comp.Values[i][idx[i]])
		}
		sb.WriteString(comp.Separators[len(comp.Separators)-1])
		out = append(out, sb.String())

		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(comp.Values[i]) {
				break
			}
			idx[i] = 0
		}
	}

	return out, nil
}

// startsEndsFormatString returns the indices of the beginning and end of each
// format variable.
func startsEndsFormatString(format string) (starts, ends []int, err error) {
	starts, ends = []int{}, []int{}
	nestedLevel := 0

	ending := "Make sure variables in file formats are enclosed in " +
		"matching { ... } pairs."

	for i := range format {
		if format[i] == '{' {
			nestedLevel++
			starts = append(starts, i)
		} else if format[i] == '}' {
			nestedLevel--
			ends = append(ends, i+1)
		}

		if nestedLevel > 1 {
			end := len(starts) - 1
			return nil, nil, fmt.Errorf("The file format '%s' has nested "+
				"'{' characters, making it invalid. These '{'s are at "+
				"indices %d and %d. "+ending,
				format, starts[end-1], starts[end])
		} else if nestedLevel < 0 {
			end := len(ends) - 1
			return nil, nil, fmt.Errorf("The file format '%s' has a '}' "+
				"that doesn't come after a '{' character, making it "+
				"invalid. This '}' is at index %d. "+ending,
				format, ends[end]-1)
		}
	}

	if len(ends) != len(starts) {
		end := len(starts) - 1
		return nil, nil, fmt.Errorf("The file format '%s' has a '{' without "+
			"a matching '}', making it invalid. This '{' is at index %d. "+
			ending, format, starts[end])
	}

	return starts, ends, nil
}

// FileFormatComponents is a file format string split into its fixed text and
// its variables. There is always one more separator than there are variables.
type FileFormatComponents struct {
	Separators []string
	Verbs      []string
	Values     [][]int
}

// NewFileFormatComponents splits format up using the variable locations
// found by startsEndsFormatString.
func NewFileFormatComponents(
	format string, starts, ends []int,
) (*FileFormatComponents, error) {
	comp := &FileFormatComponents{}

	sepStart := 0
	for i := range starts {
		comp.Separators = append(comp.Separators, format[sepStart:starts[i]])
		sepStart = ends[i]

		v := format[starts[i]+1 : ends[i]-1]
		base := fmt.Sprintf("The file format '%s' has an invalid variable, "+
			"'{%s}'. Variables should contain a formatting 'verb' (e.g. "+
			"'%%d', '%%03d', etc.), a comma, and a sequence giving the "+
			"values that variable takes on (e.g. '0..511').", format, v)

		tok := strings.SplitN(v, ",", 2)
		if len(tok) != 2 {
			return nil, fmt.Errorf("%s", base)
		}
		verb := strings.TrimSpace(tok[0])
		if !strings.HasPrefix(verb, "%") || !strings.HasSuffix(verb, "d") {
			return nil, fmt.Errorf("%s The verb '%s' isn't an integer verb.",
				base, verb)
		}
		values, err := ExpandSequenceFormat(tok[1])
		if err != nil {
			return nil, fmt.Errorf("%s %s", base, err.Error())
		}

		comp.Verbs = append(comp.Verbs, verb)
		comp.Values = append(comp.Values, values)
	}
	comp.Separators = append(comp.Separators, format[sepStart:])

	return comp, nil
}
