package service

import (
	"fmt"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"
)

// QuestionPickerService 确定性选题
// 同一 lessonId+mode 永远得到同一组题目，跨进程重启稳定
type QuestionPickerService struct {
	QuestionRepo *repository.QuestionRepository
}

func NewQuestionPickerService(questionRepo *repository.QuestionRepository) *QuestionPickerService {
	return &QuestionPickerService{QuestionRepo: questionRepo}
}

// stableHash djb2 变体：h = h*33 + c，按32位有符号整型回绕后取绝对值
func stableHash(s string) int {
	var h int32 = 5381
	for _, c := range s {
		h = h*33 + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return int(v)
}

// Pick 取 count 道题，顺序固定；题池为空时返回 ErrNoQuestionsForMode
func (s *QuestionPickerService) Pick(lessonID string, mode model.Mode, count int) ([]model.Question, error) {
	pool, err := s.QuestionRepo.FindPoolByMode(mode)
	if err != nil {
		return nil, err
	}
	return PickFromPool(pool, lessonID, mode, count)
}

// PickFromPool 纯函数部分，pool 需已按模态过滤并按 seq 升序
// 保证：pool 非空时恰好返回 count 道题，count 大于池容量时允许重复
func PickFromPool(pool []model.Question, lessonID string, mode model.Mode, count int) ([]model.Question, error) {
	if len(pool) == 0 {
		return nil, util.ErrNoQuestionsForMode
	}

	hash := stableHash(fmt.Sprintf("%s:%s", lessonID, mode))
	startIndex := hash % len(pool)

	selected := make([]model.Question, 0, count)
	seen := make(map[string]bool, count)

	// 从哈希起点环形遍历，跳过已选，步数上限 2×池容量防止死循环
	currentIndex := startIndex
	maxAttempts := len(pool) * 2
	for attempts := 0; len(selected) < count && attempts < maxAttempts; attempts++ {
		q := pool[currentIndex]
		if !seen[q.QuestionID] {
			selected = append(selected, q)
			seen[q.QuestionID] = true
		}
		currentIndex = (currentIndex + 1) % len(pool)
	}

	// 池内仍有未选中的题时按池序补齐
	if len(selected) < count {
		for _, q := range pool {
			if !seen[q.QuestionID] {
				selected = append(selected, q)
				seen[q.QuestionID] = true
				if len(selected) >= count {
					break
				}
			}
		}
	}

	// 池容量小于 count 时允许重复
	for len(selected) < count {
		selected = append(selected, pool[len(selected)%len(pool)])
	}

	return selected[:count], nil
}
