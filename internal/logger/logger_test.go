package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitLevel(t *testing.T) {
	Init("debug")
	if got := Get().GetLevel(); got != logrus.DebugLevel {
		t.Errorf("level = %s, want debug", got)
	}

	Init("nonsense")
	if got := Get().GetLevel(); got != logrus.InfoLevel {
		t.Errorf("level = %s, want info", got)
	}
	if _, ok := Get().Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter = %T, want JSON", Get().Formatter)
	}
}
