package codec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Placeholders substituted into the user-supplied command template.
const (
	InputPlaceholder   = "${INPUT}"
	OutputPlaceholder  = "${OUTPUT}"
	QualityPlaceholder = "${QUALITY}"
)

// SplitCommand securely splits a command template into arguments. No shell
// is ever involved, which rules out injection via the template itself.
func SplitCommand(command string) ([]string, error) {
	args, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("invalid command syntax: %w", err)
	}
	return args, nil
}

// ValidateArgs checks a split template: both the input and output
// placeholders must appear, and shell metacharacters are rejected outright
// even though exec.Command would not interpret them.
func ValidateArgs(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("empty command")
	}

	// Placeholders carry $ and {} themselves, so the metacharacter check
	// runs on the argument with placeholders stripped. Anything left over
	// is user text and gets no exemption.
	stripPlaceholders := strings.NewReplacer(
		InputPlaceholder, "",
		OutputPlaceholder, "",
		QualityPlaceholder, "",
	)

	var hasInput, hasOutput bool
	for _, arg := range args {
		if strings.Contains(arg, InputPlaceholder) {
			hasInput = true
		}
		if strings.Contains(arg, OutputPlaceholder) {
			hasOutput = true
		}
		if rest := stripPlaceholders.Replace(arg); strings.ContainsAny(rest, "|&;`$()<>") {
			return fmt.Errorf("disallowed character found in argument: %s", arg)
		}
	}

	if !hasInput {
		return fmt.Errorf("command must include the input placeholder %q", InputPlaceholder)
	}
	if !hasOutput {
		return fmt.Errorf("command must include the output placeholder %q", OutputPlaceholder)
	}
	return nil
}

// External runs a user-configured conversion command per file, e.g.
// `cwebp -q ${QUALITY} ${INPUT} -o ${OUTPUT}`. The template is split and
// validated once at construction.
type External struct {
	args []string
}

func NewExternal(command string) (*External, error) {
	args, err := SplitCommand(command)
	if err != nil {
		return nil, err
	}
	if err := ValidateArgs(args); err != nil {
		return nil, err
	}
	if _, err := exec.LookPath(args[0]); err != nil {
		return nil, fmt.Errorf("codec binary not found in PATH: %s", args[0])
	}
	return &External{args: args}, nil
}

// Convert substitutes the placeholders and executes the command. On failure
// the tail of the command's combined output is folded into the error so the
// batch result carries a usable reason, and any partial output is removed.
func (e *External) Convert(ctx context.Context, src, dst string, quality int) error {
	args := make([]string, len(e.args))
	for i, arg := range e.args {
		arg = strings.ReplaceAll(arg, InputPlaceholder, src)
		arg = strings.ReplaceAll(arg, OutputPlaceholder, dst)
		arg = strings.ReplaceAll(arg, QualityPlaceholder, strconv.Itoa(quality))
		args[i] = arg
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var outputBuf bytes.Buffer
	cmd.Stdout = &outputBuf
	cmd.Stderr = &outputBuf

	if err := cmd.Run(); err != nil {
		os.Remove(dst)
		if tail := outputTail(outputBuf.String()); tail != "" {
			return fmt.Errorf("codec command failed: %w: %s", err, tail)
		}
		return fmt.Errorf("codec command failed: %w", err)
	}
	return nil
}

// outputTail returns the last few lines of the command output, enough to
// carry the codec's own diagnostic without flooding the result log.
func outputTail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}
