package diag

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// Sink formats and emits every status, shader diagnostic and performance line.
// It is the only place shader info logs are formatted.
type Sink struct {
	logger *log.Logger
	out    *termenv.Output
	exit   func(int)
}

// New creates a Sink writing to w. Options are passed to termenv, which decides
// whether error lines get colour.
func New(w io.Writer, opts ...termenv.OutputOption) *Sink {
	return &Sink{
		logger: log.New(w, "", log.LstdFlags),
		out:    termenv.NewOutput(w, opts...),
		exit:   os.Exit,
	}
}

// Stderr returns a Sink bound to the process error stream.
func Stderr() *Sink {
	return New(os.Stderr)
}

// Infof logs a status line.
func (s *Sink) Infof(format string, args ...any) {
	s.logger.Printf(format, args...)
}

// Errorf logs an error line, highlighted when the stream supports it.
func (s *Sink) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.logger.Print(s.out.String(msg).Foreground(s.out.Color("9")).Bold().String())
}

// ShaderLog reports a non-empty stage info log together with the stage source.
func (s *Sink) ShaderLog(source, infoLog string) {
	s.logger.Printf("%s\n%s", strings.TrimRight(source, "\n"), strings.TrimRight(infoLog, "\n"))
}

// ProgramLog reports a non-empty program link log.
func (s *Sink) ProgramLog(infoLog string) {
	s.logger.Printf("<PROG>\n%s", strings.TrimRight(infoLog, "\n"))
}

// Performance reports the smoothed frame duration (seconds) as milliseconds and a rate.
func (s *Sink) Performance(smoothed float64) {
	var rate float64
	if smoothed > 0 {
		rate = 1.0 / smoothed
	}
	s.logger.Printf("frame: %.3f ms (%.1f fps)", smoothed*1000.0, rate)
}

// Fatalf logs an error and terminates the process.
func (s *Sink) Fatalf(format string, args ...any) {
	s.Errorf(format, args...)
	s.exit(1)
}
