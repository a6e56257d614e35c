package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ Registry               = (*HandlerRegistry)(nil)
	_ ResourceResolver       = (*MemoryResourceResolver)(nil)
	_ ConnectorConfiguration = (*StaticConnectorConfiguration)(nil)
	_ Handler                = HandlerFunc(nil)
	_ RawConfigLoader        = (*YAMLFileLoader)(nil)
	_ ConfigProvider         = (*CfgxConfigProvider)(nil)
	_ OptionsResolver        = GoOptionsResolver{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
