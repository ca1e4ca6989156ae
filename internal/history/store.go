package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/zhouyitao000/productideaauto/internal/logger"
	"github.com/zhouyitao000/productideaauto/internal/model"
)

// MaxBatches 每个平台最多保留的批次数
const MaxBatches = 24

// 历史文件名沿用旧版，保证既有数据可以直接读进来
var fileNames = map[model.Platform]string{
	model.PlatformWeibo:  "history_data.json",
	model.PlatformDouyin: "history_data_douyin.json",
}

// Store 按小时分桶的滚动历史，每个平台一个 JSON 文件
// 历史数据由 Store 独占持有，外部只能通过 Update/Snapshot 访问
type Store struct {
	dir string

	mu   sync.Mutex
	data map[model.Platform][]model.Batch
}

// NewStore 创建存储并加载两个平台的既有历史
// 文件缺失或损坏视为空历史，不算错误
func NewStore(dir string) *Store {
	s := &Store{
		dir:  dir,
		data: make(map[model.Platform][]model.Batch),
	}
	for platform := range fileNames {
		s.data[platform] = s.loadFile(platform)
	}
	return s
}

func (s *Store) filePath(platform model.Platform) string {
	name, ok := fileNames[platform]
	if !ok {
		name = "history_data_" + string(platform) + ".json"
	}
	return filepath.Join(s.dir, name)
}

func (s *Store) loadFile(platform model.Platform) []model.Batch {
	path := s.filePath(platform)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warnf("读取历史文件失败 [%s]: %v", path, err)
		}
		return nil
	}

	var batches []model.Batch
	if err := json.Unmarshal(data, &batches); err != nil {
		logger.Log.Warnf("解析历史文件失败 [%s]: %v，按空历史处理", path, err)
		return nil
	}
	return batches
}

// Update 合并一个新批次并同步落盘，返回更新后的历史快照
// 最近一条批次与新批次同属一个整点时原地覆盖，否则插到最前
// 超出容量时淘汰最旧的一条；落盘失败只记日志，内存状态保留等下轮重写
func (s *Store) Update(platform model.Platform, batch model.Batch) []model.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()

	batches := s.data[platform]
	if len(batches) > 0 && batches[0].TimestampHour == batch.TimestampHour {
		logger.Log.Infof("覆盖 %s 平台 %s 时段的数据", platform, batch.TimestampHour)
		batches[0] = batch
	} else {
		logger.Log.Infof("新增 %s 平台 %s 时段的数据", platform, batch.TimestampHour)
		batches = append([]model.Batch{batch}, batches...)
	}

	if len(batches) > MaxBatches {
		batches = batches[:MaxBatches]
	}
	s.data[platform] = batches

	if err := s.persist(platform, batches); err != nil {
		logger.Log.Errorf("保存历史文件失败 [%s]: %v", platform, err)
	}

	return copyBatches(batches)
}

// Snapshot 返回一个平台历史的副本，供渲染期间稳定读取
func (s *Store) Snapshot(platform model.Platform) []model.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyBatches(s.data[platform])
}

func (s *Store) persist(platform model.Platform, batches []model.Batch) error {
	data, err := json.MarshalIndent(batches, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath(platform), data, 0o644)
}

func copyBatches(batches []model.Batch) []model.Batch {
	out := make([]model.Batch, len(batches))
	copy(out, batches)
	return out
}
