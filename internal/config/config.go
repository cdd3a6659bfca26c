package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// FileSpec 描述一个输入文件及其使用的分隔符
// 相邻的输入文件在这个领域里会使用不同的分隔符，所以逐文件配置
type FileSpec struct {
	Path      string `mapstructure:"path"`      // 文件路径
	Delimiter string `mapstructure:"delimiter"` // 单字符分隔符
}

// Delim 返回分隔符字节；配置值必须恰好是一个字符
func (f FileSpec) Delim() (byte, error) {
	if len(f.Delimiter) != 1 {
		return 0, fmt.Errorf("分隔符必须是单个字符, 得到 %q (文件 %s)", f.Delimiter, f.Path)
	}
	return f.Delimiter[0], nil
}

// Config 定义应用程序的配置结构
// 使用 mapstructure 标签来映射配置文件中的字段
type Config struct {
	StationFiles   []FileSpec `mapstructure:"station_files"`   // 工站文件列表，按顺序加载
	OrdersFile     FileSpec   `mapstructure:"orders_file"`     // 客户订单文件
	LineFile       FileSpec   `mapstructure:"line_file"`       // 线路拓扑文件
	ArchiveEnabled bool       `mapstructure:"archive_enabled"` // 是否归档终端订单和工站快照
	ArchivePath    string     `mapstructure:"archive_path"`    // 归档文件路径
	HTTPAddr       string     `mapstructure:"http_addr"`       // 状态端点监听地址
	TickDelayMs    int        `mapstructure:"tick_delay_ms"`   // 每个 tick 之间的延时，便于实时观察
	LogLevel       string     `mapstructure:"log_level"`       // 日志级别: DEBUG/INFO/WARN/ERROR
}

// LoadConfig 从 config.yaml 文件加载配置
// 使用 Viper 库来读取和解析配置文件
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config") // 配置文件名称 (不带扩展名)
	viper.SetConfigType("yaml")   // 配置文件类型
	viper.AddConfigPath(".")      // 查找配置文件的路径 (当前目录)

	// 设置默认值
	viper.SetDefault("archive_enabled", true)
	viper.SetDefault("archive_path", "orders.archive")
	viper.SetDefault("http_addr", ":8080")
	viper.SetDefault("tick_delay_ms", 0)
	viper.SetDefault("log_level", "INFO")

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 将配置解析到结构体中
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if len(cfg.StationFiles) == 0 {
		return nil, fmt.Errorf("配置中缺少 station_files")
	}
	if cfg.OrdersFile.Path == "" || cfg.LineFile.Path == "" {
		return nil, fmt.Errorf("配置中缺少 orders_file 或 line_file")
	}

	return &cfg, nil
}
