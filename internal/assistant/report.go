package assistant

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stock-assistant/internal/types"
)

func (a *Assistant) reportDir() string {
	if v := os.Getenv("ASSISTANT_LOG_DIR"); v != "" {
		return v
	}
	return a.cfg.Report.Dir
}

func digestPath(dir string, t time.Time) string {
	return filepath.Join(dir, "digest", t.Format("2006-01-02")+".txt")
}

// WriteDigestReport renders a digest as plain text under the report
// directory, one file per day, and returns the written path.
func (a *Assistant) WriteDigestReport(digest types.Digest) (string, error) {
	path := digestPath(a.reportDir(), time.Unix(digest.GeneratedAt, 0))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("每日市場觀察\n")
	b.WriteString(fmt.Sprintf("產生時間: %s\n\n", time.Unix(digest.GeneratedAt, 0).Format("2006-01-02 15:04:05")))
	b.WriteString(digest.IndexSummary + "\n\n")

	if len(digest.News) == 0 {
		b.WriteString("今日無足夠新聞可供分析。\n")
	}
	for i, entry := range digest.News {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, entry.Item.Title))
		if entry.Item.Link != "" {
			b.WriteString("   " + entry.Item.Link + "\n")
		}
		b.WriteString("   情感判斷: " + entry.Analysis.Sentiment + "\n")
		b.WriteString("   新手看法: " + entry.Analysis.Explanation + "\n\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
