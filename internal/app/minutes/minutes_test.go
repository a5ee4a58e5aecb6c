package minutes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "minutes-whisper/internal/app/errors"
)

const footer = "※このテキストはダウンロード後、Copilotにアップロードして整形できます。\nおすすめプロンプト：\n"

func TestRender_Full(t *testing.T) {
	got := Render("A:Hi。B:Bye。", ModeFull)

	want := "\n【文字起こし全文】\n-----------------------\n" +
		"\n**A:** Hi。\n\n**B:** Bye。\n" +
		"\n-----------------------\n" + footer +
		"「この文字起こしを読みやすく整えてください。話者ごとに分けて、改行を入れてください。」\n"
	assert.Equal(t, want, got)
}

func TestRender_FullWithoutMarkers(t *testing.T) {
	got := Render("Hello. World.", ModeFull)
	assert.Contains(t, got, "\n-----------------------\nHello. World.\n-----------------------\n")
}

func TestRender_ConversationAndPointsKeepText(t *testing.T) {
	text := "A:今日は。B:予算の件です。"

	conv := Render(text, ModeConversation)
	assert.True(t, strings.HasPrefix(conv, "\n【議事録（会話重視）】\n"))
	assert.Contains(t, conv, "\n"+text+"\n")
	assert.Contains(t, conv, "会話の流れを残しつつ議事録風にしてください。」\n")

	points := Render(text, ModePoints)
	assert.True(t, strings.HasPrefix(points, "\n【議事録（要点重視）】\n"))
	assert.Contains(t, points, "\n"+text+"\n")
	assert.True(t, strings.HasSuffix(points, "箇条書きでまとめてください。」\n"))
}

func TestRender_EmptyText(t *testing.T) {
	for _, m := range Modes() {
		got := Render("", m)
		assert.Contains(t, got, divider+"\n\n"+divider, m)
	}
}

func TestRender_UnknownModeFallsBackToFull(t *testing.T) {
	assert.Equal(t, Render("あ。", ModeFull), Render("あ。", Mode("bogus")))
}

func TestFormatFull(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"こんにちは。", "こんにちは。\n"},
		{"A:はい", "\n**A:** はい"},
		{"B:いいえ。A:了解。", "\n**B:** いいえ。\n\n**A:** 了解。\n"},
		{"no markers", "no markers"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFull(tt.in), tt.in)
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeFull, m)

	m, err = ParseMode(" Points ")
	require.NoError(t, err)
	assert.Equal(t, ModePoints, m)

	_, err = ParseMode("summary")
	assert.ErrorIs(t, err, apperrors.ErrUnknownMode)
}

func TestModes(t *testing.T) {
	assert.Equal(t, []Mode{ModeFull, ModeConversation, ModePoints}, Modes())
	for _, m := range Modes() {
		assert.True(t, m.Valid())
		assert.NotEmpty(t, m.Label())
		assert.NotEmpty(t, m.Header())
	}
	assert.False(t, Mode("x").Valid())
	assert.Equal(t, "② 💬 会話重視の議事録", ModeConversation.Label())
}
