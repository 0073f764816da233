package database

import (
	"encoding/json"
	"fmt"
	"lingo_backend/internal/config"
	"lingo_backend/internal/model"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbc := &cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbc.User,
		dbc.Password,
		dbc.Host,
		dbc.Port,
		dbc.DBName,
		dbc.Charset,
		dbc.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式不自动迁移，需显式 --migrate
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.Unit{},
			&model.Lesson{},
			&model.Question{},
			&model.QuizAttempt{},
			&model.QuestionAttempt{},
			&model.UserHearts{},
			&model.PlanetModeProgress{},
			&model.UnitProgress{},
			&model.UserProgress{},
			&model.AudioAsset{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")

		if err := seedContent(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// 默认课程内容：20个单元，每单元3课；题库每个模态25题
func seedContent(db *gorm.DB) error {
	var unitCount int64
	db.Model(&model.Unit{}).Count(&unitCount)
	if unitCount == 0 {
		themes := []string{
			"基础问候", "家庭成员", "数字与时间", "饮食起居", "出行交通",
			"购物砍价", "天气季节", "身体健康", "学校生活", "工作职业",
			"兴趣爱好", "城市地标", "乡村风光", "节日习俗", "情感表达",
			"新闻时事", "历史文化", "科技网络", "商务会谈", "文学赏析",
		}
		for i, theme := range themes {
			unit := model.Unit{
				UnitID:    fmt.Sprintf("unit-%02d", i+1),
				Title:     fmt.Sprintf("第%d单元 · %s", i+1, theme),
				Order:     i + 1,
				Published: true,
			}
			if err := db.Create(&unit).Error; err != nil {
				return err
			}
			for j := 1; j <= 3; j++ {
				lesson := model.Lesson{
					LessonID:         fmt.Sprintf("lesson-%02d-%d", i+1, j),
					UnitID:           unit.UnitID,
					Title:            fmt.Sprintf("%s · 第%d课", theme, j),
					Order:            j,
					EstimatedMinutes: 3,
					Published:        true,
				}
				if err := db.Create(&lesson).Error; err != nil {
					return err
				}
			}
		}
		log.Println("Seeded default units and lessons")
	}

	var qCount int64
	db.Model(&model.Question{}).Count(&qCount)
	if qCount == 0 {
		if err := seedQuestions(db); err != nil {
			return err
		}
		log.Println("Seeded default question pools")
	}

	return nil
}

type seedWord struct {
	Word    string
	Meaning string
}

// 种子词表，轮转填满每个模态25题
var seedWords = []seedWord{
	{"xin chào", "你好"},
	{"cảm ơn", "谢谢"},
	{"tạm biệt", "再见"},
	{"xin lỗi", "对不起"},
	{"nước", "水"},
	{"cơm", "米饭"},
	{"bạn", "朋友"},
	{"gia đình", "家庭"},
	{"trường học", "学校"},
	{"công việc", "工作"},
	{"thời tiết", "天气"},
	{"xe buýt", "公交车"},
	{"chợ", "市场"},
	{"buổi sáng", "早上"},
	{"buổi tối", "晚上"},
	{"hôm nay", "今天"},
	{"ngày mai", "明天"},
	{"đẹp", "漂亮"},
	{"nhanh", "快"},
	{"chậm", "慢"},
	{"ăn", "吃"},
	{"uống", "喝"},
	{"đi", "去"},
	{"đọc", "读"},
	{"viết", "写"},
}

func seedQuestions(db *gorm.DB) error {
	const perMode = 25
	for _, mode := range model.AllModes {
		for i := 0; i < perMode; i++ {
			w := seedWords[i%len(seedWords)]
			q := model.Question{
				QuestionID: fmt.Sprintf("q-%s-%03d", mode, i+1),
				Mode:       mode,
				Seq:        i + 1,
			}
			switch mode {
			case model.ModeWriting:
				q.Type = model.QuestionTypeAnswer
				q.Prompt = fmt.Sprintf("请用越南语写出“%s”", w.Meaning)
				q.CorrectAnswer = w.Word
				q.CaseSensitive = false
				q.Hint = fmt.Sprintf("以 %c 开头", []rune(w.Word)[0])
			case model.ModeListening:
				q.Type = model.QuestionMCQ
				q.Prompt = "听录音，选出你听到的词"
				q.CorrectAnswer = w.Word
				q.Choices = mustChoices(w.Word, i)
			case model.ModeSpeaking:
				q.Type = model.QuestionMCQ
				q.Prompt = fmt.Sprintf("选出“%s”的正确读法", w.Meaning)
				q.CorrectAnswer = w.Word
				q.Choices = mustChoices(w.Word, i)
			default: // reading
				q.Type = model.QuestionMCQ
				q.Prompt = fmt.Sprintf("“%s”是什么意思？", w.Word)
				q.CorrectAnswer = w.Meaning
				q.Choices = mustMeaningChoices(w.Meaning, i)
			}
			if err := db.Create(&q).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// 正确项加三个词表内干扰项，共4个选项
func mustChoices(correct string, salt int) string {
	choices := []string{correct}
	for k := 1; len(choices) < 4; k++ {
		cand := seedWords[(salt+k*7)%len(seedWords)].Word
		if cand != correct {
			choices = append(choices, cand)
		}
	}
	data, _ := json.Marshal(choices)
	return string(data)
}

func mustMeaningChoices(correct string, salt int) string {
	choices := []string{correct}
	for k := 1; len(choices) < 4; k++ {
		cand := seedWords[(salt+k*7)%len(seedWords)].Meaning
		if cand != correct {
			choices = append(choices, cand)
		}
	}
	data, _ := json.Marshal(choices)
	return string(data)
}
