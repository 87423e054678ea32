package indicator

import "math"

// KalmanFilter 是一维递归平滑器。状态（估计值与误差协方差）完整保存在
// 实例内部，多个实例互不影响；单个实例不支持并发调用。
type KalmanFilter struct {
	q float64 // 过程噪声
	r float64 // 观测噪声

	estimate    float64
	errorCov    float64
	initialized bool
}

// NewKalmanFilter 创建滤波器，噪声参数非正时回退到默认值。
func NewKalmanFilter(processNoise, measurementNoise float64) *KalmanFilter {
	if processNoise <= 0 {
		processNoise = 0.01
	}
	if measurementNoise <= 0 {
		measurementNoise = 1.0
	}
	return &KalmanFilter{
		q:        processNoise,
		r:        measurementNoise,
		errorCov: 1.0,
	}
}

// Update 输入一次观测并返回最新估计。首次观测直接作为初始状态。
func (k *KalmanFilter) Update(observation float64) float64 {
	if !k.initialized {
		k.estimate = observation
		k.initialized = true
		return k.estimate
	}

	predictedCov := k.errorCov + k.q
	gain := predictedCov / (predictedCov + k.r)

	k.estimate += gain * (observation - k.estimate)
	k.errorCov = (1 - gain) * predictedCov

	return k.estimate
}

// Estimate 返回当前估计值，尚无观测时为 NaN。
func (k *KalmanFilter) Estimate() float64 {
	if !k.initialized {
		return math.NaN()
	}
	return k.estimate
}
