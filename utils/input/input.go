package input

import (
	"context"
	"os"
	"path/filepath"

	"git.fiblab.net/general/common/v2/mongoutil"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/yaml.v2"
)

// signalFile 信号机YAML文件结构
type signalFile struct {
	Signals []*SignalDoc `yaml:"signals"`
}

// corridorFile 走廊YAML文件结构
type corridorFile struct {
	Corridors []*CorridorDoc `yaml:"corridors"`
}

// Input 输入数据
// 功能：存储信号机与走廊的全部输入记录
// 说明：支持从YAML文件或MongoDB加载，加载时完成结构性校验与去重
type Input struct {
	Signals   []*SignalDoc
	Corridors []*CorridorDoc
}

// Init 下载数据
// 功能：根据配置初始化并加载所有输入数据
// 参数：config-配置对象，cacheDir-缓存目录
// 返回：加载完成的输入数据指针
// 算法说明：
// 1. 缓存检查：验证缓存目录的有效性
// 2. 数据库连接：如果配置了MongoDB则建立连接
// 3. 信号机数据加载：
//   - 文件加载：支持单个或多个文件
//   - 数据库加载：从MongoDB加载并写入缓存
//   - 数据验证：跳过字段非法的记录
//
// 4. 走廊数据加载：来源与信号机相同，走廊配置缺省时跳过
// 5. 数据验证：确保ID无重复
// 说明：这是数据加载的主入口，确保协调计算所需的所有数据都正确加载
func Init(config config.Config, cacheDir string) (res *Input) {
	useCache := preCheckCache(cacheDir)
	if !useCache {
		cacheDir = ""
	}

	var client *mongo.Client
	if config.Input.URI != "" {
		client = mongoutil.NewClient(config.Input.URI)
		defer client.Disconnect(context.Background())
	}

	// 初始化返回值
	res = &Input{
		Signals:   make([]*SignalDoc, 0),
		Corridors: make([]*CorridorDoc, 0),
	}

	if config.Input.Signals.File != "" {
		res.Signals = loadSignalFile(config.Input.Signals.File)
	} else if len(config.Input.Signals.Files) > 0 {
		// 读取多个文件
		for _, file := range config.Input.Signals.Files {
			res.Signals = append(res.Signals, loadSignalFile(file)...)
		}
	} else {
		res.Signals = mustLoad[SignalDoc](client, config.Input.Signals, cacheDir)
	}

	// 检查数据正确性：跳过非法记录
	okSignals := make([]*SignalDoc, 0, len(res.Signals))
	for _, doc := range res.Signals {
		if err := checkSignalDoc(doc); err != nil {
			log.Errorf("ignore signal %s due to bad record: %v", doc.ID, err)
			continue
		}
		okSignals = append(okSignals, doc)
	}
	res.Signals = okSignals
	if len(res.Signals) == 0 {
		log.Error("no valid signals to coordinate, please check data")
	}
	signalIDs := make(map[string]struct{}, len(res.Signals))
	for _, doc := range res.Signals {
		if _, ok := signalIDs[doc.ID]; ok {
			log.Panicf("signals have duplicated ids %s, please check data", doc.ID)
		}
		signalIDs[doc.ID] = struct{}{}
	}

	if config.Input.Corridors != nil {
		if config.Input.Corridors.File != "" {
			res.Corridors = loadCorridorFile(config.Input.Corridors.File)
		} else if len(config.Input.Corridors.Files) > 0 {
			for _, file := range config.Input.Corridors.Files {
				res.Corridors = append(res.Corridors, loadCorridorFile(file)...)
			}
		} else {
			res.Corridors = mustLoad[CorridorDoc](client, *config.Input.Corridors, cacheDir)
		}
	}
	okCorridors := make([]*CorridorDoc, 0, len(res.Corridors))
	for _, doc := range res.Corridors {
		if err := checkCorridorDoc(doc); err != nil {
			log.Errorf("ignore corridor %s due to bad record: %v", doc.ID, err)
			continue
		}
		okCorridors = append(okCorridors, doc)
	}
	res.Corridors = okCorridors
	corridorIDs := make(map[string]struct{}, len(res.Corridors))
	for _, doc := range res.Corridors {
		if _, ok := corridorIDs[doc.ID]; ok {
			log.Panicf("corridors have duplicated ids %s, please check data", doc.ID)
		}
		corridorIDs[doc.ID] = struct{}{}
	}

	return
}

// loadSignalFile 从YAML文件读取信号机记录
func loadSignalFile(path string) []*SignalDoc {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Panicf("failed to load signals from file: %v", err)
	}
	var f signalFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		log.Panicf("failed to load signals from file: %v", err)
	}
	return f.Signals
}

// loadCorridorFile 从YAML文件读取走廊记录
func loadCorridorFile(path string) []*CorridorDoc {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Panicf("failed to load corridors from file: %v", err)
	}
	var f corridorFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		log.Panicf("failed to load corridors from file: %v", err)
	}
	return f.Corridors
}

// mustLoad 必须加载数据（泛型函数）
// 功能：从MongoDB或缓存中加载数据
// 参数：client-MongoDB客户端，inputPath-输入路径配置，cacheDir-缓存目录
// 返回：加载的记录列表
// 算法说明：
// 1. 缓存加载：缓存文件存在时直接读取并返回
// 2. 仅缓存模式：缓存缺失时panic
// 3. 数据库下载：从MongoDB集合拉取全部记录
// 4. 缓存写入：下载成功后以YAML格式回写缓存
// 说明：提供统一的数据加载接口，支持缓存和数据库两种数据源
func mustLoad[T any](client *mongo.Client, inputPath config.InputPath, cacheDir string) []*T {
	cachePath := ""
	if cacheDir != "" {
		cachePath = filepath.Join(cacheDir, inputPath.GetCachePath())
	}
	if cachePath != "" {
		if data, err := os.ReadFile(cachePath); err == nil {
			var docs []*T
			if err := yaml.Unmarshal(data, &docs); err != nil {
				log.Panicf("failed to load with cache: %v", err)
			}
			log.Infof("load %d records from cache %s", len(docs), cachePath)
			return docs
		}
	}
	if inputPath.OnlyCache {
		log.Panicf("failed to load with cache: only_cache is set but cache %s is missing", cachePath)
	}
	if client == nil {
		log.Panicf("failed to download %s.%s: no mongo_uri in config", inputPath.DB, inputPath.Col)
	}
	log.Infof("start fetching from %s.%s", inputPath.DB, inputPath.Col)
	coll := mongoutil.GetMongoColl(client, inputPath)
	cur, err := coll.Find(context.Background(), bson.D{})
	if err != nil {
		log.Panicf("failed to download: %v", err)
	}
	docs := make([]*T, 0)
	if err := cur.All(context.Background(), &docs); err != nil {
		log.Panicf("failed to download: %v", err)
	}
	log.Infof("finish fetching from %s.%s", inputPath.DB, inputPath.Col)
	if cachePath != "" {
		if data, err := yaml.Marshal(docs); err != nil {
			log.Errorf("failed to write cache %s: %v", cachePath, err)
		} else if err := os.WriteFile(cachePath, data, 0644); err != nil {
			log.Errorf("failed to write cache %s: %v", cachePath, err)
		}
	}
	return docs
}
