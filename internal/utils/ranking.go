package utils

import (
	"math"
	"time"
)

type RankConfig struct {
	Gravity        float64 // 时间重力
	WeightLike     float64
	WeightComment  float64
	WeightFavorite float64
	ScaleFactor    float64 // 放大系数
}

var DefaultConfig = RankConfig{
	Gravity:        1.5,
	WeightLike:     1.0,
	WeightComment:  2.0,
	WeightFavorite: 3.0,
	ScaleFactor:    100.0, // 让分数落在 0-100 区间，像"温度"
}

// CalculateScore 文章热度分：互动加权求和后取对数平滑，再按小时数做时间衰减。
// 浏览量不参与加权，数量级太大会淹没其他互动信号。
func CalculateScore(t time.Time, likes, favorites, comments int) float64 {
	hours := time.Since(t).Hours()

	weightedSum := (float64(likes) * DefaultConfig.WeightLike) +
		(float64(comments) * DefaultConfig.WeightComment) +
		(float64(favorites) * DefaultConfig.WeightFavorite)
	if weightedSum < 0 {
		weightedSum = 0
	}

	// log10(sum + 1) 确保 sum=0 时结果为 0
	logScore := math.Log10(weightedSum + 1)
	numerator := logScore * DefaultConfig.ScaleFactor
	decay := math.Pow(hours+2, DefaultConfig.Gravity)

	return numerator / decay
}
