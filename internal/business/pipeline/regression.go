package pipeline

import (
	"fmt"
	"math"
)

// 模型名称常量
const (
	ModelNameOLS   = "ols"
	ModelNameRidge = "ridge"
)

// LinearModel 线性回归模型
// lambda = 0 时为普通最小二乘（OLS），lambda > 0 时为岭回归
type LinearModel struct {
	name   string
	lambda float64
	coef   []float64 // [bias, w1..wd]
}

// NewOLS 创建最小二乘模型
func NewOLS() *LinearModel {
	return &LinearModel{name: ModelNameOLS}
}

// NewRidge 创建岭回归模型
func NewRidge(lambda float64) *LinearModel {
	return &LinearModel{name: ModelNameRidge, lambda: lambda}
}

// Name 模型名称
func (m *LinearModel) Name() string {
	return m.name
}

// Fit 正规方程求解：(XᵀX + λI)w = Xᵀy
// 偏置项不参与正则化
func (m *LinearModel) Fit(features [][]float64, targets []float64) error {
	n := len(features)
	if n == 0 {
		return fmt.Errorf("fit: empty training set")
	}
	if n != len(targets) {
		return fmt.Errorf("fit: feature/target length mismatch: %d != %d", n, len(targets))
	}

	d := len(features[0]) + 1 // 增广偏置列

	// 组装 A = XᵀX + λI 与 b = Xᵀy
	a := make([][]float64, d)
	for i := range a {
		a[i] = make([]float64, d)
	}
	b := make([]float64, d)

	aug := make([]float64, d)
	for row, x := range features {
		if len(x) != d-1 {
			return fmt.Errorf("fit: inconsistent feature dimension at row %d", row)
		}
		aug[0] = 1
		copy(aug[1:], x)

		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				a[i][j] += aug[i] * aug[j]
			}
			b[i] += aug[i] * targets[row]
		}
	}

	// 偏置（下标 0）不正则化
	for i := 1; i < d; i++ {
		a[i][i] += m.lambda
	}

	coef, err := solveLinear(a, b)
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}

	m.coef = coef
	return nil
}

// Predict 预测单行
func (m *LinearModel) Predict(x []float64) float64 {
	if m.coef == nil {
		return 0
	}
	y := m.coef[0]
	for i, v := range x {
		y += m.coef[i+1] * v
	}
	return y
}

// PredictAll 批量预测
func (m *LinearModel) PredictAll(features [][]float64) []float64 {
	out := make([]float64, len(features))
	for i, x := range features {
		out[i] = m.Predict(x)
	}
	return out
}

// solveLinear 高斯消元（列主元）求解 Ax = b
func solveLinear(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)

	for col := 0; col < n; col++ {
		// 选主元
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular normal matrix at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		// 消元
		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			b[row] -= factor * b[col]
		}
	}

	// 回代
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < n; j++ {
			sum -= a[i][j] * x[j]
		}
		x[i] = sum / a[i][i]
	}

	return x, nil
}

// rmse 均方根误差
func rmse(predicted, actual []float64) float64 {
	if len(predicted) == 0 {
		return 0
	}
	var sum float64
	for i := range predicted {
		diff := predicted[i] - actual[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(predicted)))
}

// kFoldRMSE k 折交叉验证（顺序分折，保证结果确定）
// 返回各折 RMSE 的均值
func kFoldRMSE(factory func() *LinearModel, features [][]float64, targets []float64, k int) (float64, error) {
	n := len(features)
	if k < 2 {
		return 0, fmt.Errorf("cross validation requires at least 2 folds")
	}
	if n < k {
		return 0, fmt.Errorf("not enough rows for %d-fold cross validation: %d", k, n)
	}

	foldSize := n / k
	var total float64

	for fold := 0; fold < k; fold++ {
		lo := fold * foldSize
		hi := lo + foldSize
		if fold == k-1 {
			hi = n // 末折吞掉余数
		}

		trainX := make([][]float64, 0, n-(hi-lo))
		trainY := make([]float64, 0, n-(hi-lo))
		trainX = append(trainX, features[:lo]...)
		trainX = append(trainX, features[hi:]...)
		trainY = append(trainY, targets[:lo]...)
		trainY = append(trainY, targets[hi:]...)

		m := factory()
		if err := m.Fit(trainX, trainY); err != nil {
			return 0, fmt.Errorf("fold %d: %w", fold, err)
		}

		total += rmse(m.PredictAll(features[lo:hi]), targets[lo:hi])
	}

	return total / float64(k), nil
}

// SelectModel 训练并交叉验证两个候选模型，返回 RMSE 较低者（用全量训练集重新拟合）
// 任一候选拟合失败（如正规矩阵奇异）时，只在两者都失败时报错
func SelectModel(features [][]float64, targets []float64, folds int, ridgeLambda float64) (*LinearModel, float64, error) {
	candidates := []func() *LinearModel{
		NewOLS,
		func() *LinearModel { return NewRidge(ridgeLambda) },
	}

	var best func() *LinearModel
	bestRMSE := math.Inf(1)
	var lastErr error

	for _, factory := range candidates {
		score, err := kFoldRMSE(factory, features, targets, folds)
		if err != nil {
			lastErr = err
			continue
		}
		if score < bestRMSE {
			bestRMSE = score
			best = factory
		}
	}

	if best == nil {
		return nil, 0, fmt.Errorf("all candidate models failed: %w", lastErr)
	}

	winner := best()
	if err := winner.Fit(features, targets); err != nil {
		return nil, 0, fmt.Errorf("refit winner: %w", err)
	}

	return winner, bestRMSE, nil
}
