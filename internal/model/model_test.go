package model

import "testing"

func TestTotalScore(t *testing.T) {
	tests := []struct {
		interest   int
		usefulness int
		want       float64
	}{
		{100, 0, 80.0},
		{75, 0, 60.0},
		{74, 0, 59.2},
		{85, 70, 82.0},
		{0, 0, 0.0},
		{100, 100, 100.0},
		{150, -10, 80.0}, // 越界分项先收敛到 0-100
	}

	for _, tt := range tests {
		got := TotalScore(tt.interest, tt.usefulness)
		if got != tt.want {
			t.Errorf("TotalScore(%d, %d) = %v, want %v", tt.interest, tt.usefulness, got, tt.want)
		}
	}
}

func TestQualityTier(t *testing.T) {
	tests := []struct {
		total     float64
		wantLabel string
		wantClass string
	}{
		{80.0, "优秀", QualityExcellent}, // 边界闭区间
		{95.5, "优秀", QualityExcellent},
		{79.9, "良好", QualityGood},
		{60.0, "良好", QualityGood},
		{59.2, "需要改进", QualityNeedsImprovement},
		{0, "需要改进", QualityNeedsImprovement},
	}

	for _, tt := range tests {
		label, class := QualityTier(tt.total)
		if label != tt.wantLabel || class != tt.wantClass {
			t.Errorf("QualityTier(%v) = (%q, %q), want (%q, %q)", tt.total, label, class, tt.wantLabel, tt.wantClass)
		}
	}
}

func TestIdeaDeriveOverridesClaimedValues(t *testing.T) {
	idea := Idea{
		Scores: Scores{
			Interest:   100,
			Usefulness: 0,
			Total:      12.3, // 生成侧给的值不可信
		},
		Quality:      "伪造档位",
		QualityClass: "fake",
	}

	idea.Derive()

	if idea.Scores.Total != 80.0 {
		t.Errorf("Derive() total = %v, want 80.0", idea.Scores.Total)
	}
	if idea.Quality != "优秀" || idea.QualityClass != QualityExcellent {
		t.Errorf("Derive() quality = (%q, %q), want (优秀, %q)", idea.Quality, idea.QualityClass, QualityExcellent)
	}
}
