// Package minutes turns a raw transcript into the downloadable minutes document.
package minutes

import (
	"fmt"
	"strings"

	apperrors "minutes-whisper/internal/app/errors"
)

// DownloadFileName is the file name offered for every rendered document.
const DownloadFileName = "minutes.txt"

// Status lines shown while a job runs and when it completes.
const (
	StartedMessage = "⏳ 文字起こし中です。少々お待ちください..."
	DoneMessage    = "✅ 文字起こしが完了しました"
)

// Mode selects how the transcript is framed.
type Mode string

const (
	ModeFull         Mode = "full"
	ModeConversation Mode = "conversation"
	ModePoints       Mode = "points"
)

const divider = "-----------------------"

type template struct {
	label  string
	header string
	prompt string
}

var templates = map[Mode]template{
	ModeFull: {
		label:  "① ✏️ 文字起こし全文",
		header: "【文字起こし全文】",
		prompt: "「この文字起こしを読みやすく整えてください。話者ごとに分けて、改行を入れてください。」",
	},
	ModeConversation: {
		label:  "② 💬 会話重視の議事録",
		header: "【議事録（会話重視）】",
		prompt: "「この議事録を整えてください。話者ごとに分けて、会話の流れを残しつつ議事録風にしてください。」",
	},
	ModePoints: {
		label:  "③ 📌 要点重視の議事録",
		header: "【議事録（要点重視）】",
		prompt: "「この議事録から、議題・決定事項・アクションアイテムを抽出して、箇条書きでまとめてください。」",
	},
}

// Modes lists the modes in display order.
func Modes() []Mode {
	return []Mode{ModeFull, ModeConversation, ModePoints}
}

// ParseMode accepts a mode name; the empty string selects ModeFull.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeFull, nil
	}
	if _, ok := templates[m]; !ok {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownMode, s)
	}
	return m, nil
}

// Label is the user-facing name of the mode.
func (m Mode) Label() string {
	return templates[m].label
}

// Header is the bracketed title line of the rendered document.
func (m Mode) Header() string {
	return templates[m].header
}

// Valid reports whether m is one of Modes().
func (m Mode) Valid() bool {
	_, ok := templates[m]
	return ok
}

// FormatFull puts a line break after every full stop and starts each
// speaker tag on its own line in bold.
func FormatFull(text string) string {
	text = strings.ReplaceAll(text, "。", "。\n")
	text = strings.ReplaceAll(text, "A:", "\n**A:** ")
	return strings.ReplaceAll(text, "B:", "\n**B:** ")
}

// Render builds the document for mode. Unknown modes render as ModeFull.
func Render(text string, mode Mode) string {
	t, ok := templates[mode]
	if !ok {
		mode, t = ModeFull, templates[ModeFull]
	}
	if mode == ModeFull {
		text = FormatFull(text)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(t.header)
	b.WriteString("\n" + divider + "\n")
	b.WriteString(text)
	b.WriteString("\n" + divider + "\n")
	b.WriteString("※このテキストはダウンロード後、Copilotにアップロードして整形できます。\n")
	b.WriteString("おすすめプロンプト：\n")
	b.WriteString(t.prompt)
	b.WriteString("\n")
	return b.String()
}
