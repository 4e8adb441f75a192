package logger

import (
	"encoding/json"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// levelColors maps log levels to their console colors.
var levelColors = map[zapcore.Level]*color.Color{
	zapcore.DebugLevel:  color.New(color.FgCyan),
	zapcore.InfoLevel:   color.New(color.FgGreen),
	zapcore.WarnLevel:   color.New(color.FgYellow),
	zapcore.ErrorLevel:  color.New(color.FgRed, color.Bold),
	zapcore.DPanicLevel: color.New(color.FgRed, color.Bold),
	zapcore.PanicLevel:  color.New(color.FgRed, color.Bold),
	zapcore.FatalLevel:  color.New(color.FgRed, color.Bold),
}

// devEncoder renders console-mode log lines for local development: the level
// is colorized and structured fields are printed as indented JSON below the
// line instead of being squeezed into it.
type devEncoder struct {
	zapcore.Encoder
	consoleEncoder zapcore.Encoder
	jsonEncoder    zapcore.Encoder
	pool           buffer.Pool
}

func newDevEncoder(encoderConfig zapcore.EncoderConfig) zapcore.Encoder {
	consoleEnc := zapcore.NewConsoleEncoder(encoderConfig)
	return &devEncoder{
		Encoder:        consoleEnc,
		consoleEncoder: consoleEnc,
		jsonEncoder:    zapcore.NewJSONEncoder(encoderConfig),
		pool:           buffer.NewPool(),
	}
}

func (e *devEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	consoleBuf, err := e.consoleEncoder.EncodeEntry(entry, nil)
	if err != nil {
		return nil, err
	}

	line := strings.TrimRight(consoleBuf.String(), "\n")
	line = colorizeLevel(line, entry.Level)

	if len(fields) > 0 {
		line = e.appendFields(line, entry, fields)
	}

	buf := e.pool.Get()
	buf.AppendString(line)
	buf.AppendString("\n")

	return buf, nil
}

// appendFields pretty-prints the structured fields under the log line.
// If the fields cannot be round-tripped through JSON they are appended raw.
func (e *devEncoder) appendFields(line string, entry zapcore.Entry, fields []zapcore.Field) string {
	fieldBuf, err := e.jsonEncoder.EncodeEntry(entry, fields)
	if err != nil {
		return line
	}

	var fieldsMap map[string]any
	if json.Unmarshal(fieldBuf.Bytes(), &fieldsMap) != nil {
		return line + " " + fieldBuf.String()
	}

	// These are already part of the console line prefix.
	for _, k := range []string{"msg", "level", "ts", "caller", "logger"} {
		delete(fieldsMap, k)
	}

	if len(fieldsMap) == 0 {
		return line
	}

	pretty, err := json.MarshalIndent(fieldsMap, "", "  ")
	if err != nil {
		return line + " " + fieldBuf.String()
	}

	return line + "\n" + string(pretty)
}

// colorizeLevel replaces the level token in the rendered line with a colored
// version. Lines without a recognizable level token pass through unchanged.
func colorizeLevel(line string, level zapcore.Level) string {
	c, ok := levelColors[level]
	if !ok {
		return line
	}

	for _, token := range []string{level.CapitalString(), level.String()} {
		if strings.Contains(line, token) {
			return strings.Replace(line, token, c.Sprint(token), 1)
		}
	}

	return line
}
